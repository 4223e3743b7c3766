//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/stemsi/exam-countdown/internal/countdown"
	"github.com/stemsi/exam-countdown/internal/model"
	ws "github.com/stemsi/exam-countdown/internal/websocket"
)

const defaultBaseURL = "http://localhost:8080"

var baseURL string

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	os.Exit(m.Run())
}

func TestE2EFlow(t *testing.T) {
	now := time.Now()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	if start.Day() != now.Day() || end.Day() != now.Day() {
		t.Skip("exam window would cross midnight")
	}

	// Step 1: Catalog
	t.Run("ListBoards", func(t *testing.T) {
		resp, err := get("/api/v1/catalog/boards")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age") {
			t.Errorf("expected cacheable catalog, got Cache-Control %q", cc)
		}
	})

	// Step 2: Start a session that is already under way
	t.Run("StartSession", func(t *testing.T) {
		reqBody := model.StartSessionRequest{
			Board:     "Cambridge",
			Subject:   model.SubjectRef{Code: "0580"},
			Date:      now.Format("2006-01-02"),
			StartTime: start.Format("15:04"),
			EndTime:   end.Format("15:04"),
			Classroom: "E2E",
		}
		resp, err := send(http.MethodPost, "/api/v1/session", reqBody)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data struct {
				Session model.SessionView `json:"session"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Session.Frame == nil || body.Data.Session.Frame.Phase != countdown.PhaseInProgress {
			t.Fatalf("expected in_progress frame, got %+v", body.Data.Session.Frame)
		}
		if body.Data.Session.Exam.Venue != "CN399" {
			t.Errorf("expected default venue CN399, got %q", body.Data.Session.Exam.Venue)
		}
	})

	// Step 3: A display connects and receives the current frame first
	t.Run("DisplayStream", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws/v1/countdown"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		var msg ws.TickResponse
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
		if msg.Event != ws.EventTick || msg.Frame.Phase != countdown.PhaseInProgress {
			t.Fatalf("unexpected snapshot %+v", msg)
		}

		if err := conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}); err != nil {
			t.Fatalf("write ping: %v", err)
		}
		for {
			var reply ws.PongResponse
			if err := conn.ReadJSON(&reply); err != nil {
				t.Fatalf("read pong: %v", err)
			}
			if reply.Event == ws.EventPong {
				break
			}
		}
	})

	// Step 4: Stop and confirm nothing is running
	t.Run("StopSession", func(t *testing.T) {
		resp, err := send(http.MethodDelete, "/api/v1/session", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("stop status %d", resp.StatusCode)
		}

		resp, err = get("/api/v1/session")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 after stop, got %d", resp.StatusCode)
		}
	})
}

func send(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func get(path string) (*http.Response, error) {
	return send(http.MethodGet, path, nil)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
