package api

import (
	"encoding/json"
	"net/http"
	"time"

	"spatialgrid/internal/metrics"
	"spatialgrid/internal/spatialhash"
)

// Handler methods for routerHandlers.

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	cells := h.grid.CellCount()
	writeJSON(w, map[string]interface{}{
		"itemCount":       h.grid.ItemCount(),
		"bucketItemCount": h.grid.BucketItemCount(),
		"cellCount":       map[string]int32{"x": cells.X, "y": cells.Y, "z": cells.Z},
	})
}

type vec3Request struct {
	X, Y, Z float64
}

func (v vec3Request) toFloat3() spatialhash.Float3 {
	return spatialhash.Float3{X: v.X, Y: v.Y, Z: v.Z}
}

type aabbQueryRequest struct {
	Center vec3Request `json:"center"`
	Size   vec3Request `json:"size"`
}

func (h *routerHandlers) handleQueryAABB(w http.ResponseWriter, r *http.Request) {
	var req aabbQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	query := spatialhash.NewAABBFromCenterSize(req.Center.toFloat3(), req.Size.toFloat3())

	start := time.Now()
	ids := h.grid.QueryAABB(query)
	metrics.RecordQueryAABB(time.Since(start))

	writeJSON(w, map[string]interface{}{"ids": ids})
}

type obbQueryRequest struct {
	Center  vec3Request    `json:"center"`
	Extents vec3Request    `json:"extents"`
	RotRows [3]vec3Request `json:"rotationRows"`
}

func (h *routerHandlers) handleQueryOBB(w http.ResponseWriter, r *http.Request) {
	var req obbQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rotation := spatialhash.Identity3()
	for i, row := range req.RotRows {
		if row != (vec3Request{}) {
			rotation[i] = row.toFloat3()
		}
	}

	query := spatialhash.OBB{
		Center:   req.Center.toFloat3(),
		Extents:  req.Extents.toFloat3(),
		Rotation: rotation,
	}

	start := time.Now()
	ids := h.grid.QueryOBB(query)
	metrics.RecordQueryOBB(time.Since(start))

	writeJSON(w, map[string]interface{}{"ids": ids})
}

type raycastRequest struct {
	Origin vec3Request `json:"origin"`
	Dir    vec3Request `json:"dir"`
	Length float64     `json:"length"`
}

func (h *routerHandlers) handleRaycast(w http.ResponseWriter, r *http.Request) {
	var req raycastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Length <= 0 {
		writeError(w, "length must be positive", http.StatusBadRequest)
		return
	}

	h.raycastMu.Lock()
	start := time.Now()
	id, point, ok := h.grid.RayCast(req.Origin.toFloat3(), req.Dir.toFloat3(), req.Length)
	metrics.RecordRaycast(time.Since(start))
	h.raycastMu.Unlock()

	if !ok {
		writeJSON(w, map[string]interface{}{"hit": false})
		return
	}
	writeJSON(w, map[string]interface{}{
		"hit":   true,
		"id":    id,
		"point": map[string]float64{"x": point.X, "y": point.Y, "z": point.Z},
	})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
