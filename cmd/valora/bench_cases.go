// README: Bench checks for the valuation API, plus the concurrent load phase.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		httpCaseMethod("health", http.MethodGet, base+"/health", nil, []int{http.StatusOK}, nil),
		httpCaseMethod("greeting", http.MethodGet, base+"/", nil, []int{http.StatusOK}, func(body []byte) error {
			var out struct {
				Message string `json:"mensaje"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return err
			}
			if out.Message == "" {
				return fmt.Errorf("missing mensaje")
			}
			return nil
		}),
		httpCase("basic empty candidate list", base+"/valorar", emptyBasicPayload(), []int{http.StatusOK}, expectEmptyList),
		httpCase("basic ranks nearer unit first", base+"/valorar", basicPayload(), []int{http.StatusOK}, expectRanking),
		httpCase("extended ranks nearer unit first", base+"/valorar/extendido", extendedPayload(), []int{http.StatusOK}, expectRanking),
		httpCase("missing servicio is rejected", base+"/valorar", map[string]any{"medios": []any{}},
			[]int{http.StatusUnprocessableEntity}, nil),
		{
			Name:  "load basic",
			Focus: "Performance",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/valorar", basicPayload())
			},
		},
		{
			Name:  "load extended",
			Focus: "Performance",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/valorar/extendido", extendedPayload())
			},
		},
	}
}

type bodyCheck func(body []byte) error

func httpCase(name, url string, body any, okStatuses []int, check bodyCheck) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, check)
}

func httpCaseMethod(name, method, url string, body any, okStatuses []int, check bodyCheck) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, err := json.Marshal(body)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				reader = bytes.NewReader(b)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			respBody, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			latency := time.Since(start)
			if err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}

			if !slices.Contains(okStatuses, resp.StatusCode) {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			if check != nil {
				if err := check(respBody); err != nil {
					return Result{Status: statusFail, Latency: latency, Note: err.Error()}
				}
			}
			return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	if r.cfg.Duration <= 0 || r.cfg.Concurrency <= 0 {
		return Result{Status: statusSkip, Note: "load phase disabled"}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				if err != nil {
					errCount.Add(1)
					return
				}
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func expectEmptyList(body []byte) error {
	var out []json.RawMessage
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	if out == nil || len(out) != 0 {
		return fmt.Errorf("expected [], got %s", body)
	}
	return nil
}

// expectRanking checks the reference pair: X must outscore Y.
func expectRanking(body []byte) error {
	var out []struct {
		ID    string  `json:"matricula"`
		Score float64 `json:"valoracion"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	if len(out) != 2 || out[0].ID != "X" || out[1].ID != "Y" {
		return fmt.Errorf("unexpected units: %s", body)
	}
	if out[0].Score <= out[1].Score {
		return fmt.Errorf("X=%.2f not above Y=%.2f", out[0].Score, out[1].Score)
	}
	return nil
}

func coordinates(lat, lng float64) map[string]any {
	return map[string]any{"latitud": lat, "longitud": lng}
}

func emptyBasicPayload() map[string]any {
	return map[string]any{
		"servicio": map[string]any{
			"fecha_hora_carga": "2025-06-02T08:00:00",
			"coordenadas":      coordinates(0, 0),
		},
		"medios": []any{},
	}
}

func basicPayload() map[string]any {
	p := emptyBasicPayload()
	p["medios"] = []any{
		map[string]any{
			"matricula":             "X",
			"fecha_disponibilidad":  "2025-06-02T07:00:00",
			"distancia_hasta_carga": 10,
			"amplitud_jornada":      "2025-06-02T10:00:00",
		},
		map[string]any{
			"matricula":             "Y",
			"fecha_disponibilidad":  "2025-06-02T07:30:00",
			"distancia_hasta_carga": 50,
			"amplitud_jornada":      "2025-06-02T08:30:00",
		},
	}
	return p
}

func extendedPayload() map[string]any {
	return map[string]any{
		"servicio": map[string]any{
			"fecha_hora_carga":    "2025-06-02T08:00:00",
			"coordenadas":         coordinates(0, 0),
			"unidad_organizativa": "A1",
		},
		"medios": []any{
			map[string]any{
				"matricula":            "X",
				"fecha_disponibilidad": "2025-06-02T07:00:00",
				"coordenadas":          coordinates(0.0899, 0),
				"amplitud_jornada":     "2025-06-02T10:00:00",
				"unidad_organizativa":  "A1",
				"tipo_evento":          "DESCARGA",
			},
			map[string]any{
				"matricula":            "Y",
				"fecha_disponibilidad": "2025-06-02T07:30:00",
				"coordenadas":          coordinates(0.4497, 0),
				"amplitud_jornada":     "2025-06-02T08:30:00",
				"unidad_organizativa":  "B2",
				"tipo_evento":          "CARGA",
			},
		},
	}
}
