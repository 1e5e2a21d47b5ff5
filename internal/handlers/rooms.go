package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/roomrelay/internal/roomid"
	"github.com/mossy-p/roomrelay/internal/signaling"
)

// GetRoom reports the current members of a room.
func GetRoom(registry *signaling.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("roomId")
		if err := roomid.Validate(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		info, ok := registry.Snapshot(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// GetStats reports registry-wide counters.
func GetStats(registry *signaling.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.Stats())
	}
}
