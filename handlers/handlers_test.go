package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type envelope struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg"`
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

type fakeCountryService struct {
	services.CountryService
	create func(services.CountryInput) (*models.Country, error)
	del    func(id int) error
}

func (f *fakeCountryService) Create(_ context.Context, in services.CountryInput) (*models.Country, error) {
	return f.create(in)
}

func (f *fakeCountryService) Delete(_ context.Context, id int) error { return f.del(id) }

func countryRouter(svc services.CountryService, media services.MediaService) http.Handler {
	h := NewCountryHandler(svc, media, testLogger())
	r := chi.NewRouter()
	r.Post("/countries", h.CreateCountry)
	r.Delete("/countries/{countryID}", h.DeleteCountry)
	r.Post("/countries/{countryID}/flag", h.UploadCountryFlag)
	return r
}

func TestServiceErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrCountryCodeConflict, http.StatusBadRequest},
		{services.ErrCountryNotFound, http.StatusNotFound},
		{services.ErrCountryInUse, http.StatusBadRequest},
		{services.ErrCharacterOutsideGame, http.StatusBadRequest},
		{fmt.Errorf("%w: code is required", services.ErrValidationFailed), http.StatusBadRequest},
		{services.ErrUploadsDisabled, http.StatusServiceUnavailable},
		{errors.New("connection reset by peer"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &fakeCountryService{del: func(int) error { return tt.err }}
			rec, env := do(t, countryRouter(svc, nil), http.MethodDelete, "/countries/3", "")

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if env.OK {
				t.Fatal("ok = true on failure")
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(env.Msg, "connection reset") {
				t.Fatalf("internal error leaked to client: %q", env.Msg)
			}
			if tt.status != http.StatusInternalServerError && env.Msg != tt.err.Error() {
				t.Fatalf("msg = %q, want %q", env.Msg, tt.err.Error())
			}
		})
	}
}

func TestCreateCountryEnvelope(t *testing.T) {
	svc := &fakeCountryService{create: func(in services.CountryInput) (*models.Country, error) {
		return &models.Country{ID: 1, Name: in.Name, Code: "UA"}, nil
	}}
	rec, _ := do(t, countryRouter(svc, nil), http.MethodPost, "/countries", `{"name":"Ukraine","code":"ua"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		OK      bool           `json:"ok"`
		Country models.Country `json:"country"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK || body.Country.Code != "UA" || body.Country.ID != 1 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestReadJSONRejectsBadBodies(t *testing.T) {
	svc := &fakeCountryService{create: func(services.CountryInput) (*models.Country, error) {
		t.Fatal("service called with a rejected body")
		return nil, nil
	}}
	for _, body := range []string{``, `{"name":`, `{"name":"A","code":"AB","extra":1}`, `{"name":1}`, `{"name":"A"}{"name":"B"}`} {
		rec, env := do(t, countryRouter(svc, nil), http.MethodPost, "/countries", body)
		if rec.Code != http.StatusBadRequest || env.OK || env.Msg == "" {
			t.Fatalf("body %q: status=%d env=%+v", body, rec.Code, env)
		}
	}
}

func TestInvalidPathID(t *testing.T) {
	svc := &fakeCountryService{del: func(int) error {
		t.Fatal("service called with invalid id")
		return nil
	}}
	for _, target := range []string{"/countries/abc", "/countries/0", "/countries/-4"} {
		rec, _ := do(t, countryRouter(svc, nil), http.MethodDelete, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
	}
}

type fakePlayerService struct {
	services.PlayerService
	existing map[int]bool
}

func (f *fakePlayerService) AssignGame(_ context.Context, playerID int, in services.AssignGameInput) (*models.PlayerGame, bool, error) {
	created := !f.existing[in.GameID]
	f.existing[in.GameID] = true
	return &models.PlayerGame{PlayerID: playerID, GameID: in.GameID, Rank: in.Rank}, created, nil
}

func TestAssignGameStatusReflectsUpsert(t *testing.T) {
	h := NewPlayerHandler(&fakePlayerService{existing: map[int]bool{}}, nil, testLogger())
	r := chi.NewRouter()
	r.Post("/players/{playerID}/games", h.AssignGame)

	rec, _ := do(t, r, http.MethodPost, "/players/1/games", `{"game_id":2,"rank":"Gold"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first assign status = %d", rec.Code)
	}
	rec, env := do(t, r, http.MethodPost, "/players/1/games", `{"game_id":2,"rank":"Diamond"}`)
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("second assign status = %d", rec.Code)
	}
}

type fakeMediaService struct {
	got services.MediaFile
	err error
}

func (f *fakeMediaService) Upload(_ context.Context, kind services.MediaKind, id int, file services.MediaFile) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.got = file
	return fmt.Sprintf("https://cdn.test/%s/%d.png", kind, id), nil
}

func multipartRequest(t *testing.T, target, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="ua.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("png"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadCountryFlag(t *testing.T) {
	media := &fakeMediaService{}
	rec := httptest.NewRecorder()
	countryRouter(&fakeCountryService{}, media).ServeHTTP(rec, multipartRequest(t, "/countries/4/flag", "image/png"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if media.got.Name != "ua.png" || media.got.ContentType != "image/png" {
		t.Fatalf("unexpected file %+v", media.got)
	}
	if !strings.Contains(rec.Body.String(), "https://cdn.test/flags/4.png") {
		t.Fatalf("url missing from %s", rec.Body.String())
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	media := &fakeMediaService{err: services.ErrUploadsDisabled}
	rec := httptest.NewRecorder()
	countryRouter(&fakeCountryService{}, media).ServeHTTP(rec, multipartRequest(t, "/countries/4/flag", "image/png"))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	rec, env := do(t, http.HandlerFunc(NewHealthHandler(fakePinger{}, testLogger()).Healthz), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("healthy: status = %d", rec.Code)
	}

	rec, _ = do(t, http.HandlerFunc(NewHealthHandler(fakePinger{err: errors.New("down")}, testLogger()).Healthz), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy: status = %d", rec.Code)
	}
}
