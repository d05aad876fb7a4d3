// Package typesapi serves a read-only HTTP view of a types registry,
// for debugging and for sharing resolved type metadata between
// processes.
package typesapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

// Handler exposes a registry over HTTP.
type Handler struct {
	registry *pgtypes.TypesRegistry
	logger   *zap.Logger
}

// NewHandler creates a handler for the given registry. A nil logger
// disables logging.
func NewHandler(registry *pgtypes.TypesRegistry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, logger: logger}
}

// Routes returns the router for the types API:
//
//	GET /types        list all distinct types
//	GET /types/{key}  lookup one type by name, name[] or oid
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/types", h.listTypes)
	r.Get("/types/{key}", h.getType)
	return r
}

// typeJSON is the wire form of a TypeInfo.
type typeJSON struct {
	Name      string `json:"name"`
	OID       uint32 `json:"oid"`
	ArrayOID  uint32 `json:"array_oid"`
	Regtype   string `json:"regtype"`
	Delimiter string `json:"delimiter"`
}

func toJSON(info *pgtypes.TypeInfo) typeJSON {
	return typeJSON{
		Name:      info.Name,
		OID:       info.OID,
		ArrayOID:  info.ArrayOID,
		Regtype:   info.Regtype,
		Delimiter: info.Delimiter,
	}
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	types := h.registry.Types()
	sort.Slice(types, func(i, j int) bool { return types[i].OID < types[j].OID })

	out := make([]typeJSON, len(types))
	for i, info := range types {
		out[i] = toJSON(info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getType(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "key")

	key, err := parseKey(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: err.Error()})
		return
	}

	info, err := h.registry.Lookup(key)
	if err != nil {
		if errors.Is(err, pgtypes.ErrNotFound) {
			h.logger.Debug("type lookup miss", zap.String("key", raw))
			writeJSON(w, http.StatusNotFound, errorJSON{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toJSON(info))
}

// parseKey interprets an all-digits path segment as an oid and
// anything else as a type name.
func parseKey(raw string) (any, error) {
	if raw == "" {
		return nil, errors.New("empty type key")
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return raw, nil
		}
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n > math.MaxUint32 {
		return nil, errors.New("oid out of range: " + raw)
	}
	return uint32(n), nil
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
