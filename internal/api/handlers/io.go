package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/anxiety/internal/device"
	"github.com/concave-dev/anxiety/internal/iosched"
	"github.com/concave-dev/anxiety/internal/logging"
)

// IORequest is the body of POST /api/v1/io. Data is base64; for writes
// Length defaults to the decoded size.
type IORequest struct {
	Op     string `json:"op" binding:"required,oneof=read write flush discard"`
	Sync   bool   `json:"sync"`
	Offset uint64 `json:"offset"`
	Length uint64 `json:"length"`
	Data   string `json:"data,omitempty" binding:"omitempty,base64"`
}

// IOResponse reports a completed request. Data carries read results.
type IOResponse struct {
	ID      string `json:"id"`
	Op      string `json:"op"`
	Sync    bool   `json:"sync"`
	Offset  uint64 `json:"offset"`
	Length  uint64 `json:"length"`
	Merged  bool   `json:"merged"`
	Latency string `json:"latency"`
	Data    string `json:"data,omitempty"`
}

// SubmitIO handles POST /api/v1/io.
func SubmitIO(queue DeviceQueue, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body IORequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Details: err.Error(),
			})
			return
		}

		req, err := body.toRequest()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Details: err.Error(),
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		comp, err := queue.Submit(ctx, req)
		if err != nil {
			submitError(c, err)
			return
		}
		if err := comp.Wait(ctx); err != nil {
			submitError(c, err)
			return
		}

		response := IOResponse{
			ID:      req.ID,
			Op:      req.Op.String(),
			Sync:    req.Sync,
			Offset:  req.Offset,
			Length:  req.Length,
			Merged:  comp.Merged(),
			Latency: comp.Latency().String(),
		}
		if req.Op == iosched.OpRead {
			response.Data = base64.StdEncoding.EncodeToString(req.Data[:req.Length])
		}

		logging.Debug("I/O %s %s %d+%d completed in %s",
			logging.FormatRequestID(req.ID), req.Op, req.Offset, req.Length, response.Latency)
		c.JSON(http.StatusOK, response)
	}
}

func (b *IORequest) toRequest() (*iosched.Request, error) {
	op, err := iosched.ParseOp(b.Op)
	if err != nil {
		return nil, err
	}

	req := &iosched.Request{Op: op, Sync: b.Sync, Offset: b.Offset, Length: b.Length}
	if op == iosched.OpWrite {
		data, err := base64.StdEncoding.DecodeString(b.Data)
		if err != nil {
			return nil, err
		}
		req.Data = data
		if req.Length == 0 {
			req.Length = uint64(len(data))
		}
	}
	return req, nil
}

func submitError(c *gin.Context, err error) {
	var full *device.QueueFullError
	status := http.StatusInternalServerError
	msg := "I/O failed"

	switch {
	case errors.As(err, &full):
		status, msg = http.StatusTooManyRequests, "Device queue full"
	case errors.Is(err, device.ErrInvalidRequest):
		status, msg = http.StatusBadRequest, "Invalid I/O request"
	case errors.Is(err, device.ErrQueueClosed):
		status, msg = http.StatusServiceUnavailable, "Device queue closed"
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "I/O did not complete in time"
	}

	if status >= 500 {
		logging.Error("%s: %v", msg, err)
	} else {
		logging.Warn("%s: %v", msg, err)
	}
	c.JSON(status, ErrorResponse{Error: msg, Details: err.Error()})
}
