// Package handlers exposes route planning and the signal simulator over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/mohamedthameursassi/signalroute/roadgraph"
	"github.com/mohamedthameursassi/signalroute/routing"
	"github.com/mohamedthameursassi/signalroute/search"
	"github.com/mohamedthameursassi/signalroute/traffic"
)

// MaxTicksPerRequest caps POST /api/signals/tick.
const MaxTicksPerRequest = 10000

// RouteRequest names each endpoint either by node id or by a point, which is
// snapped to the nearest node.
type RouteRequest struct {
	Start      *roadgraph.NodeID `json:"start"`
	Goal       *roadgraph.NodeID `json:"goal"`
	StartPoint *orb.Point        `json:"start_point"`
	GoalPoint  *orb.Point        `json:"goal_point"`
}

type ReachableRequest struct {
	Start      *roadgraph.NodeID `json:"start"`
	StartPoint *orb.Point        `json:"start_point"`
	Minutes    float64           `json:"minutes" binding:"required,gt=0"`
}

type ReachedNode struct {
	ID          roadgraph.NodeID `json:"id"`
	CostMinutes float64          `json:"cost_minutes"`
	Position    orb.Point        `json:"position"`
}

type TickRequest struct {
	Ticks int `json:"ticks"`
}

// RoutingHandler serves one shared graph. Searches hold the read lock and
// simulator ticks the write lock, so signal state never changes under a
// running search.
type RoutingHandler struct {
	mu      sync.RWMutex
	graph   *roadgraph.Graph
	opts    routing.Options
	planner *routing.Planner
	sim     *traffic.Simulator
	logger  zerolog.Logger
}

func NewRoutingHandler(g *roadgraph.Graph, opts routing.Options, logger zerolog.Logger) *RoutingHandler {
	return &RoutingHandler{
		graph:   g,
		opts:    opts,
		planner: routing.NewPlanner(g, opts, logger),
		sim:     traffic.NewSimulator(g, logger),
		logger:  logger,
	}
}

func (h *RoutingHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	api := r.Group("/api")
	api.POST("/routes", h.CalculateRoute)
	api.POST("/routes/replay", h.ReplayRoute)
	api.POST("/reachable", h.Reachable)
	api.GET("/signals", h.GetSignals)
	api.POST("/signals/tick", h.TickSignals)
}

func (h *RoutingHandler) Health(c *gin.Context) {
	h.mu.RLock()
	nodes, edges := h.graph.Len(), h.graph.EdgeCount()
	h.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "nodes": nodes, "edges": edges})
}

func (h *RoutingHandler) CalculateRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	h.mu.RLock()
	route, err := h.plan(c, req)
	h.mu.RUnlock()
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": RequestIDFrom(c), "route": route})
}

// ReplayRoute plans on a copy of the graph and replays the route there, so
// the shared signal state is left untouched.
func (h *RoutingHandler) ReplayRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	h.mu.RLock()
	clone := h.graph.Clone()
	h.mu.RUnlock()

	logger := loggerFrom(c, h.logger)
	start, err := endpoint(clone, req.Start, req.StartPoint, "start")
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	goal, err := endpoint(clone, req.Goal, req.GoalPoint, "goal")
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	route, err := routing.NewPlanner(clone, h.opts, logger).Plan(c.Request.Context(), start, goal)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	frames, err := traffic.NewReplay(traffic.NewSimulator(clone, logger), route.Nodes).All()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": RequestIDFrom(c), "route": route, "frames": frames})
}

// Reachable lists every node reachable from the start within the given
// number of minutes, cheapest first. Truncated is set when the expansion
// budget or timeout cut the search short.
func (h *RoutingHandler) Reachable(c *gin.Context) {
	var req ReachableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	start, err := endpoint(h.graph, req.Start, req.StartPoint, "start")
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	costs, err := h.planner.Reachable(c.Request.Context(), start, req.Minutes)
	truncated := errors.Is(err, search.ErrNoPathFound)
	if err != nil && !truncated {
		h.fail(c, statusFor(err), err)
		return
	}

	reached := make([]ReachedNode, 0, len(costs))
	for id, cost := range costs {
		n, err := h.graph.Node(id)
		if err != nil {
			h.fail(c, http.StatusInternalServerError, err)
			return
		}
		reached = append(reached, ReachedNode{ID: id, CostMinutes: cost, Position: n.Position})
	}
	sort.Slice(reached, func(i, j int) bool {
		if reached[i].CostMinutes != reached[j].CostMinutes {
			return reached[i].CostMinutes < reached[j].CostMinutes
		}
		return reached[i].ID < reached[j].ID
	})
	c.JSON(http.StatusOK, gin.H{
		"request_id": RequestIDFrom(c),
		"start":      start,
		"reached":    reached,
		"truncated":  truncated,
	})
}

func (h *RoutingHandler) GetSignals(c *gin.Context) {
	h.mu.RLock()
	signals := traffic.Signals(h.graph)
	elapsed := h.sim.Elapsed()
	h.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"elapsed": elapsed, "signals": signals})
}

func (h *RoutingHandler) TickSignals(c *gin.Context) {
	req := TickRequest{Ticks: 1}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, http.StatusBadRequest, err)
			return
		}
	}
	if req.Ticks < 1 || req.Ticks > MaxTicksPerRequest {
		h.fail(c, http.StatusBadRequest, errors.New("ticks must be between 1 and 10000"))
		return
	}

	h.mu.Lock()
	changes, err := h.sim.Run(req.Ticks)
	elapsed := h.sim.Elapsed()
	h.mu.Unlock()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"elapsed": elapsed, "changes": changes})
}

// plan must run under the read lock.
func (h *RoutingHandler) plan(c *gin.Context, req RouteRequest) (*routing.Route, error) {
	start, err := endpoint(h.graph, req.Start, req.StartPoint, "start")
	if err != nil {
		return nil, err
	}
	goal, err := endpoint(h.graph, req.Goal, req.GoalPoint, "goal")
	if err != nil {
		return nil, err
	}
	return h.planner.Plan(c.Request.Context(), start, goal)
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func endpoint(g *roadgraph.Graph, id *roadgraph.NodeID, p *orb.Point, name string) (roadgraph.NodeID, error) {
	switch {
	case id != nil:
		return *id, nil
	case p != nil:
		nearest, _, ok := g.Nearest(*p)
		if !ok {
			return 0, errors.New("graph has no nodes")
		}
		return nearest, nil
	default:
		return 0, badRequestError{msg: name + " or " + name + "_point is required"}
	}
}

func statusFor(err error) int {
	var unknown roadgraph.UnknownNodeError
	var bad badRequestError
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.Is(err, search.ErrNoPathFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *RoutingHandler) fail(c *gin.Context, status int, err error) {
	logger := loggerFrom(c, h.logger)
	ev := logger.Warn()
	if status >= http.StatusInternalServerError {
		ev = logger.Error()
	}
	ev.Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request failed")
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "request_id": RequestIDFrom(c)})
}
