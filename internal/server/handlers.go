// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/geokit/internal/geo"

	"github.com/rs/zerolog/log"
)

// maxBodyBytes limits JSON request bodies.
const maxBodyBytes = 1 << 20

// HandleIndex serves the API landing page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleDistance serves GET /api/distance?lon1&lat1&lon2&lat2.
func (s *ServerContext) HandleDistance(w http.ResponseWriter, r *http.Request) {
	v, err := queryNumbers(r, "lon1", "lat1", "lon2", "lat2")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"meters": geo.Distance(v[0], v[1], v[2], v[3]),
	})
}

// HandleSegment serves GET /api/segment?lon1&lat1&lon2&lat2&lon3&lat3[&deviation].
func (s *ServerContext) HandleSegment(w http.ResponseWriter, r *http.Request) {
	v, err := queryNumbers(r, "lon1", "lat1", "lon2", "lat2", "lon3", "lat3")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	deviation := s.Config.Deviation
	if raw := r.URL.Query().Get("deviation"); raw != "" {
		d, ok := geo.Number(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parameter %q is not a number", "deviation"))
			return
		}
		deviation = d
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"on_segment": geo.OnSegment(v[0], v[1], v[2], v[3], v[4], v[5], deviation),
		"deviation":  deviation,
	})
}

type pointsRequest struct {
	Points interface{} `json:"points"`
	Lon    interface{} `json:"lon"`
	Lat    interface{} `json:"lat"`
}

// HandleCenter serves POST /api/center with {"points": [[lon, lat], ...]}.
func (s *ServerContext) HandleCenter(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePoints(w, r)
	if !ok {
		return
	}

	center, ok := geo.CenterPoint(geo.ParsePoints(req.Points))
	if !ok {
		RejectedTotal.WithLabelValues("center").Inc()
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("at least 2 valid points required"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"center": center.Slice()})
}

// HandleWithin serves POST /api/within with {"points": [...], "lon": x, "lat": y}.
func (s *ServerContext) HandleWithin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePoints(w, r)
	if !ok {
		return
	}

	lon, okLon := geo.Number(req.Lon)
	lat, okLat := geo.Number(req.Lat)
	if !okLon || !okLat {
		writeError(w, http.StatusBadRequest, fmt.Errorf("lon and lat must be numbers"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"inside": geo.WithinBounds(geo.ParsePoints(req.Points), lon, lat),
	})
}

// HandleFencesList serves the configured fences.
func (s *ServerContext) HandleFencesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config.Fences)
}

// HandleFence serves /api/fences/{name}/{within|center|preview.webp}.
func (s *ServerContext) HandleFence(w http.ResponseWriter, r *http.Request) {
	// Path: /api/fences/{name}/{action}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		http.NotFound(w, r)
		return
	}

	fence, ok := s.fence(parts[2])
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("fence %q not found", parts[2]))
		return
	}

	switch parts[3] {
	case "within":
		v, err := queryNumbers(r, "lon", "lat")
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		from := fence.GeoDatum()
		if raw := r.URL.Query().Get("datum"); raw != "" {
			if from, err = geo.ParseDatum(raw); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}

		point, ok := geo.Convert(from, fence.GeoDatum(), geo.Coordinate{Lon: v[0], Lat: v[1]})
		if !ok {
			RejectedTotal.WithLabelValues("fence_within").Inc()
			writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("cannot convert point to %s", fence.Datum))
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"fence":  fence.Name,
			"datum":  fence.Datum,
			"point":  point.Slice(),
			"inside": geo.WithinBounds(fence.Coordinates, point.Lon, point.Lat),
		})

	case "center":
		if fence.Center == nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("fence %q has no center", fence.Name))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"fence":  fence.Name,
			"datum":  fence.Datum,
			"center": fence.Center.Slice(),
		})

	case "preview.webp":
		data, err := s.preview(r.Context(), fence.Name)
		if err != nil {
			log.Error().Err(err).Str("fence", fence.Name).Msg("Failed to render preview")
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "image/webp")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(data)

	default:
		http.NotFound(w, r)
	}
}

// HandleOffset serves GET /api/offset?lon&lat[&east][&north].
func (s *ServerContext) HandleOffset(w http.ResponseWriter, r *http.Request) {
	v, err := queryNumbers(r, "lon", "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	east, err := optionalNumber(r, "east")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	north, err := optionalNumber(r, "north")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lon": geo.AddLongitudeMeters(v[0], east),
		"lat": geo.AddLatitudeMeters(v[1], north),
	})
}

// HandleDMS serves GET /api/dms?deg=x (format) or /api/dms?dms=D°M'S" (parse).
func (s *ServerContext) HandleDMS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Has("deg"):
		deg, ok := geo.Number(q.Get("deg"))
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parameter %q is not a number", "deg"))
			return
		}
		dms, ok := geo.FormatDMS(deg)
		if !ok {
			RejectedTotal.WithLabelValues("dms_format").Inc()
			writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("cannot format %v", deg))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"dms": dms})

	case q.Has("dms"):
		deg, ok := geo.ParseDMS(q.Get("dms"))
		if !ok {
			RejectedTotal.WithLabelValues("dms_parse").Inc()
			writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("cannot parse %q", q.Get("dms")))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"deg": deg})

	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("deg or dms parameter required"))
	}
}

// HandleTransform serves GET /api/transform?from&to&lon&lat.
func (s *ServerContext) HandleTransform(w http.ResponseWriter, r *http.Request) {
	v, err := queryNumbers(r, "lon", "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	from, err := geo.ParseDatum(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := geo.ParseDatum(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c, ok := geo.Convert(from, to, geo.Coordinate{Lon: v[0], Lat: v[1]})
	if !ok {
		RejectedTotal.WithLabelValues("transform").Inc()
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("cannot convert %v", v))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"datum": to,
		"lon":   c.Lon,
		"lat":   c.Lat,
	})
}

// HandleProject converts a WGS-84 point into projected meters. Without an
// epsg parameter the UTM zone of the point is used.
func (s *ServerContext) HandleProject(w http.ResponseWriter, r *http.Request) {
	v, err := queryNumbers(r, "lon", "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c := geo.Coordinate{Lon: v[0], Lat: v[1]}

	code := geo.UTMZone(c)
	if raw := r.URL.Query().Get("epsg"); raw != "" {
		code, err = strconv.Atoi(strings.TrimPrefix(strings.ToUpper(raw), "EPSG:"))
		if err != nil || !geo.ProjectionSupported(code) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported epsg %q", raw))
			return
		}
	}

	x, y, err := geo.Project(c, code)
	if err != nil {
		RejectedTotal.WithLabelValues("project").Inc()
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"epsg": code,
		"x":    x,
		"y":    y,
	})
}

// queryNumbers reads required numeric query parameters in order.
func queryNumbers(r *http.Request, names ...string) ([]float64, error) {
	q := r.URL.Query()
	out := make([]float64, len(names))

	for i, name := range names {
		if !q.Has(name) {
			return nil, fmt.Errorf("parameter %q is required", name)
		}
		v, ok := geo.Number(q.Get(name))
		if !ok {
			return nil, fmt.Errorf("parameter %q is not a number", name)
		}
		out[i] = v
	}

	return out, nil
}

// optionalNumber reads a numeric query parameter defaulting to 0.
func optionalNumber(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	v, ok := geo.Number(raw)
	if !ok {
		return 0, fmt.Errorf("parameter %q is not a number", name)
	}

	return v, nil
}

func decodePoints(w http.ResponseWriter, r *http.Request) (pointsRequest, bool) {
	var req pointsRequest

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return req, false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return req, false
	}

	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
