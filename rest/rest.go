package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voyager.com/bridgebot/game"
	"voyager.com/bridgebot/logging"
)

var restLogger = logging.GetZeroLogger("rest::rest", nil)
var tableManager *game.Manager

// APP error definition
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type eventStatus struct {
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
	Seat    string `json:"seat,omitempty"`
}

func RunRestServer(manager *game.Manager, port int) {
	tableManager = manager
	r := gin.Default()

	r.GET("/state", tableState)
	r.GET("/rubber-score", rubberScore)
	r.GET("/recommendation", recommendation)
	r.POST("/new-rubber", newRubber)
	r.POST("/hand-result", handResult)
	r.POST("/event", submitEvent)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Run(fmt.Sprintf(":%d", port))
}

func liveTable(c *gin.Context) *game.Table {
	table := tableManager.Table()
	if table == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, appError{
			Code:    http.StatusServiceUnavailable,
			Message: "no table initialized",
		})
	}
	return table
}

// submitAndWait pushes one event through the table loop and reports the
// outcome to the HTTP caller.
func submitAndWait(c *gin.Context, event game.TableEvent) {
	table := liveTable(c)
	if table == nil {
		return
	}
	reply := event.WithReply()
	table.SubmitEvent(event)
	result := <-reply

	status := eventStatus{Applied: result.Applied}
	if result.Err != nil {
		status.Error = result.Err.Error()
		c.IndentedJSON(http.StatusBadRequest, status)
		return
	}
	if result.ResolvedSeat != nil {
		status.Seat = result.ResolvedSeat.Name()
	}
	c.JSON(http.StatusOK, status)
}

func tableState(c *gin.Context) {
	table := liveTable(c)
	if table == nil {
		return
	}
	c.JSON(http.StatusOK, table.GetSnapshot())
}

func rubberScore(c *gin.Context) {
	table := liveTable(c)
	if table == nil {
		return
	}
	c.JSON(http.StatusOK, table.GetSnapshot().Rubber)
}

func recommendation(c *gin.Context) {
	table := liveTable(c)
	if table == nil {
		return
	}
	snapshot := table.GetSnapshot()
	if snapshot.Recommendation == nil {
		c.IndentedJSON(http.StatusNotFound, appError{
			Code:    http.StatusNotFound,
			Message: "no recommendation available",
		})
		return
	}
	c.JSON(http.StatusOK, snapshot.Recommendation)
}

func newRubber(c *gin.Context) {
	restLogger.Info().Msg("New rubber requested")
	submitAndWait(c, game.TableEvent{Type: game.EventNewRubber})
}

func handResult(c *gin.Context) {
	var payload game.HandResultEvent
	err := c.BindJSON(&payload)
	if err != nil {
		restLogger.Error().Msgf("Failed to parse hand result. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}
	submitAndWait(c, game.TableEvent{Type: game.EventHandResult, HandResult: &payload})
}

// submitEvent accepts any table event over HTTP; the dashboard uses it
// for claims and for replaying events when the websocket drops.
func submitEvent(c *gin.Context) {
	var event game.TableEvent
	err := c.BindJSON(&event)
	if err != nil {
		restLogger.Error().Msg(fmt.Sprintf("Failed to read table event. Error: %s", err.Error()))
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}
	submitAndWait(c, event)
}
