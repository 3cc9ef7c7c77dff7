package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheCing/uma-parent-viewer/internal/metrics"
)

// Router serves the veteran collection over HTTP.
// Endpoints ({base} is the configured base path, default root):
//
//	GET {base}/                     viewer page
//	GET {base}/api/veterans         paginated summaries (offset, limit)
//	GET {base}/api/veterans/:index  full enriched record
//	GET {base}/api/stats            collection statistics
//	GET /healthz                    liveness
//	GET /metrics                    Prometheus metrics
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	snap     *Snapshot
	basePath string
}

const (
	defaultPageSize = 25
	maxPageSize     = 100
	topSparkCount   = 10
)

//go:embed index.html
var indexHTML string

// NewRouter constructs a Router with a configurable basePath.
// Example basePath "/uma" results in /uma/api/veterans etc.
func NewRouter(snap *Snapshot, basePath string) *Router {
	return &Router{snap: snap, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted
// in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/", r.handleIndex)
	group.GET("/api/veterans", r.handleVeterans)
	group.GET("/api/veterans/:index", r.handleVeteran)
	group.GET("/api/stats", r.handleStats)
	g.GET("/healthz", r.handleHealthz)
	g.GET("/metrics", gin.WrapH(metrics.Handler()))
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
// Callers shut it down via http.Server's Shutdown or Close.
func NewServer(addr, basePath string, snap *Snapshot) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	r := NewRouter(snap, basePath)
	server := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.Serve(ln) }()
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

// veteranSummary is one row of the paginated list. CardID keeps the
// raw JSON value so large ids stay exact.
type veteranSummary struct {
	Index      int    `json:"index"`
	CardID     any    `json:"card_id,omitempty"`
	CharaName  string `json:"chara_name_en,omitempty"`
	CardName   string `json:"card_name_en,omitempty"`
	SparkCount int    `json:"spark_count"`
	WinCount   int    `json:"win_count"`
}

type veteranPage struct {
	Total    int              `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
	Veterans []veteranSummary `json:"veterans"`
}

type sparkTally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type statsResp struct {
	Veterans    int          `json:"veterans"`
	TotalSparks int          `json:"total_sparks"`
	TopSparks   []sparkTally `json:"top_sparks"`
	LoadedAt    time.Time    `json:"loaded_at"`
}

type healthResp struct {
	Status   string `json:"status"`
	Veterans int    `json:"veterans"`
}

func (r *Router) handleIndex(c *gin.Context) {
	metrics.IncAPIRequest("index")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

func (r *Router) handleVeterans(c *gin.Context) {
	metrics.IncAPIRequest("veterans")
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid offset: must be a non-negative integer"})
		return
	}
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil || limit < 1 {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid limit: must be a positive integer"})
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	veterans := r.snap.Veterans()
	page := veteranPage{
		Total:    len(veterans),
		Offset:   offset,
		Limit:    limit,
		Veterans: []veteranSummary{},
	}
	for i := offset; i < len(veterans) && len(page.Veterans) < limit; i++ {
		page.Veterans = append(page.Veterans, summarize(i, veterans[i]))
	}
	writeJSON(c, http.StatusOK, page)
}

func (r *Router) handleVeteran(c *gin.Context) {
	metrics.IncAPIRequest("veteran")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid index: must be an integer"})
		return
	}
	v, ok := r.snap.Veteran(index)
	if !ok {
		writeJSON(c, http.StatusNotFound, errorResp{Error: fmt.Sprintf("no veteran at index %d", index)})
		return
	}
	writeJSON(c, http.StatusOK, v)
}

func (r *Router) handleStats(c *gin.Context) {
	metrics.IncAPIRequest("stats")
	veterans := r.snap.Veterans()
	counts := make(map[string]int)
	total := 0
	for _, v := range veterans {
		for _, spark := range objects(v["spark_array_enriched"]) {
			total++
			if name, ok := spark["spark_name_en"].(string); ok && name != "" {
				counts[name]++
			}
		}
	}
	top := make([]sparkTally, 0, len(counts))
	for name, n := range counts {
		top = append(top, sparkTally{Name: name, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topSparkCount {
		top = top[:topSparkCount]
	}
	writeJSON(c, http.StatusOK, statsResp{
		Veterans:    len(veterans),
		TotalSparks: total,
		TopSparks:   top,
		LoadedAt:    r.snap.LoadedAt(),
	})
}

func (r *Router) handleHealthz(c *gin.Context) {
	writeJSON(c, http.StatusOK, healthResp{Status: "ok", Veterans: r.snap.Count()})
}

// summarize reduces a full record to its list row. Records straight
// off disk hold []any, so counts go through arrayLen.
func summarize(index int, v map[string]any) veteranSummary {
	s := veteranSummary{Index: index, CardID: v["card_id"]}
	s.CharaName, _ = v["chara_name_en"].(string)
	s.CardName, _ = v["card_name_en"].(string)
	if n := arrayLen(v["spark_array_enriched"]); n > 0 {
		s.SparkCount = n
	} else {
		s.SparkCount = arrayLen(v["factor_id_array"])
	}
	if n := arrayLen(v["win_saddle_array_enriched"]); n > 0 {
		s.WinCount = n
	} else {
		s.WinCount = arrayLen(v["win_saddle_id_array"])
	}
	return s
}

func arrayLen(v any) int {
	arr, ok := v.([]any)
	if !ok {
		return 0
	}
	return len(arr)
}

func objects(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, elem := range arr {
		if obj, ok := elem.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// sanitizeBase normalizes a configured base path: "" and "/" mean the
// root, anything else gets a leading slash and no trailing slash.
func sanitizeBase(bp string) string {
	bp = strings.TrimSpace(bp)
	if bp == "" || bp == "/" {
		return ""
	}
	if !strings.HasPrefix(bp, "/") {
		bp = "/" + bp
	}
	bp = strings.TrimRight(bp, "/")
	return bp
}

func writeJSON(c *gin.Context, code int, v any) {
	c.Header("Content-Type", "application/json")
	c.Status(code)
	_ = json.NewEncoder(c.Writer).Encode(v)
}
