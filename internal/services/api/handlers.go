package api

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeonardoBeccarini/borewell_project/internal/model"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/irrigation"
)

// startFields is embedded by every create request. StartTime wins over
// Hour/Minute; with neither, the run starts now.
type startFields struct {
	StartTime *time.Time `json:"start_time"`
	Hour      *int       `json:"hour"`
	Minute    *int       `json:"minute"`
}

func (s *Server) resolveStart(f startFields) (time.Time, error) {
	if f.StartTime != nil {
		return *f.StartTime, nil
	}
	now := s.now()
	if f.Hour == nil && f.Minute == nil {
		return now.In(s.cfg.Location), nil
	}
	var h, m int
	if f.Hour != nil {
		h = *f.Hour
	}
	if f.Minute != nil {
		m = *f.Minute
	}
	return irrigation.StartAt(now, h, m, s.cfg.Location)
}

type addConnectionRequest struct {
	BorewellID  int     `json:"borewell_id"`
	ConnectedTo int     `json:"connected_to"`
	Distance    float64 `json:"distance"`
	Speed       float64 `json:"speed"`
	startFields
}

type scheduleMotorRequest struct {
	BorewellID  int     `json:"borewell_id"`
	WaterAmount int     `json:"water_amount"`
	Speed       float64 `json:"speed"`
	startFields
}

type addCropRequest struct {
	ID            int     `json:"id"`
	CropType      string  `json:"crop_type"`
	SoilType      string  `json:"soil_type"`
	WaterRequired int     `json:"water_required"`
	Speed         float64 `json:"speed"`
	startFields
}

type historyView struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Display     string    `json:"display"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// writeResult renders a record operation: 201 on success (with a warning when
// the history was full), 400 for invalid input.
func writeResult(c *gin.Context, res irrigation.Result, err error) {
	if err != nil && !errors.Is(err, irrigation.ErrLogFull) {
		if errors.Is(err, irrigation.ErrInvalidInput) {
			badRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	body := gin.H{
		"end_time":         res.EndTime,
		"end_time_display": irrigation.FormatEndTime(res.EndTime),
		"logged":           res.Logged,
	}
	if err != nil {
		body["warning"] = "history is full, action not logged"
	}
	c.JSON(http.StatusCreated, body)
}

func (s *Server) handleAddConnection(c *gin.Context) {
	var req addConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	start, err := s.resolveStart(req.startFields)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := s.svc.AddConnection(req.BorewellID, req.ConnectedTo, req.Distance, req.Speed, start)
	writeResult(c, res, err)
}

func (s *Server) handleListConnections(c *gin.Context) {
	conns := slices.Collect(s.svc.ListConnections())
	if conns == nil {
		conns = []model.Connection{}
	}
	c.JSON(http.StatusOK, gin.H{"connections": conns})
}

func (s *Server) handleFindConnection(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid borewell id")
		return
	}
	conn, ok := s.svc.FindConnection(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "borewell connection not found"})
		return
	}
	c.JSON(http.StatusOK, conn)
}

func (s *Server) handleScheduleMotor(c *gin.Context) {
	var req scheduleMotorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	start, err := s.resolveStart(req.startFields)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := s.svc.ScheduleMotor(req.BorewellID, start, req.WaterAmount, req.Speed)
	writeResult(c, res, err)
}

func (s *Server) handlePendingMotors(c *gin.Context) {
	runs := slices.Collect(s.svc.PendingMotorRuns())
	if runs == nil {
		runs = []model.ScheduledMotorRun{}
	}
	c.JSON(http.StatusOK, gin.H{"motor_runs": runs})
}

func (s *Server) handleNextMotor(c *gin.Context) {
	run, ok := s.svc.NextMotorRun()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleAddCrop(c *gin.Context) {
	var req addCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	start, err := s.resolveStart(req.startFields)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := s.svc.AddCrop(req.ID, req.CropType, req.SoilType, req.WaterRequired, start, req.Speed)
	writeResult(c, res, err)
}

func (s *Server) handleListCrops(c *gin.Context) {
	crops := slices.Collect(s.svc.ListCropsSorted())
	if crops == nil {
		crops = []model.Crop{}
	}
	c.JSON(http.StatusOK, gin.H{"crops": crops})
}

func (s *Server) handleHistory(c *gin.Context) {
	out := []historyView{}
	for e := range s.svc.ListHistory() {
		out = append(out, historyView{
			Description: e.Description,
			Timestamp:   e.Timestamp,
			Display:     irrigation.FormatLogTime(e.Timestamp),
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}
