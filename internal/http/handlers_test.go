package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/xuri/excelize/v2"
)

const testSnapshotID = "550e8400-e29b-41d4-a716-446655440000"

type stubHealthChecker struct {
	err error
}

func (s stubHealthChecker) Ping(context.Context) error {
	return s.err
}

type stubService struct {
	convertFn         func(context.Context, domain.Network) (domain.Document, error)
	listSnapshotsFn   func(context.Context) ([]domain.Snapshot, error)
	createSnapshotFn  func(context.Context, domain.CreateSnapshotInput) (domain.Snapshot, error)
	getSnapshotFn     func(context.Context, domain.SnapshotID) (domain.Snapshot, error)
	deleteSnapshotFn  func(context.Context, domain.SnapshotID) error
	convertSnapshotFn func(context.Context, domain.SnapshotID) (domain.Document, error)
}

func (s stubService) Convert(ctx context.Context, network domain.Network) (domain.Document, error) {
	if s.convertFn == nil {
		return domain.Document{}, nil
	}
	return s.convertFn(ctx, network)
}

func (s stubService) ListSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	if s.listSnapshotsFn == nil {
		return nil, nil
	}
	return s.listSnapshotsFn(ctx)
}

func (s stubService) CreateSnapshot(ctx context.Context, input domain.CreateSnapshotInput) (domain.Snapshot, error) {
	if s.createSnapshotFn == nil {
		return domain.Snapshot{}, nil
	}
	return s.createSnapshotFn(ctx, input)
}

func (s stubService) GetSnapshot(ctx context.Context, id domain.SnapshotID) (domain.Snapshot, error) {
	if s.getSnapshotFn == nil {
		return domain.Snapshot{}, nil
	}
	return s.getSnapshotFn(ctx, id)
}

func (s stubService) DeleteSnapshot(ctx context.Context, id domain.SnapshotID) error {
	if s.deleteSnapshotFn == nil {
		return nil
	}
	return s.deleteSnapshotFn(ctx, id)
}

func (s stubService) ConvertSnapshot(ctx context.Context, id domain.SnapshotID) (domain.Document, error) {
	if s.convertSnapshotFn == nil {
		return domain.Document{}, nil
	}
	return s.convertSnapshotFn(ctx, id)
}

func newHandlerTestAPI(service domain.ConversionService, healthErr error) *API {
	return NewAPI(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		stubHealthChecker{err: healthErr},
		service,
		nil,
	)
}

const conversionBody = `{
	"network": {"id": "N_1", "name": "Branch 12"},
	"vlans": [{
		"id": "10",
		"name": "Users",
		"subnet": "10.0.10.0/24",
		"applianceIp": "10.0.10.1",
		"dhcpHandling": "Run a DHCP server",
		"dhcpLeaseTime": "1 day",
		"reservedIpRanges": [{"start": "10.0.10.1", "end": "10.0.10.20", "comment": "infra"}],
		"fixedIpAssignments": {"00:11:22:33:44:55": {"ip": "10.0.10.50", "name": "printer"}}
	}]
}`

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		ID: testSnapshotID,
		Network: domain.Network{
			ID:   "N_1",
			Name: "Branch 12",
			VLANs: []domain.VLAN{{
				ID:           10,
				Name:         "Users",
				Subnet:       netip.MustParsePrefix("10.0.10.0/24"),
				ApplianceIP:  netip.MustParseAddr("10.0.10.1"),
				DHCPHandling: domain.DHCPRun,
				LeaseTime:    "1 day",
				FixedAssignments: []domain.FixedAssignment{
					{MAC: "00:11:22:33:44:55", IP: netip.MustParseAddr("10.0.10.50"), Name: "printer"},
				},
			}},
		},
		CreatedAt: time.Date(2024, 5, 10, 15, 4, 5, 0, time.UTC),
	}
}

func serve(api *API, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturnsOK(t *testing.T) {
	rec := serve(newHandlerTestAPI(stubService{}, nil), http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("expected ok body, got %q", rec.Body.String())
	}
}

func TestReadyzReturnsServiceUnavailableWhenHealthCheckFails(t *testing.T) {
	rec := serve(newHandlerTestAPI(stubService{}, context.Canceled), http.MethodGet, "/readyz", nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestConvertReturnsRenderedDocument(t *testing.T) {
	var got domain.Network
	api := newHandlerTestAPI(stubService{
		convertFn: func(_ context.Context, network domain.Network) (domain.Document, error) {
			got = network
			return domain.Document{Lines: []string{"config system interface", "end"}}, nil
		},
	}, nil)

	rec := serve(api, http.MethodPost, "/api/v1/conversions", strings.NewReader(conversionBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %q", ct)
	}
	if rec.Body.String() != "config system interface\nend\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got.Name != "Branch 12" || len(got.VLANs) != 1 {
		t.Fatalf("unexpected network passed to service: %+v", got)
	}
	vlan := got.VLANs[0]
	if vlan.ID != 10 || vlan.DHCPHandling != domain.DHCPRun {
		t.Fatalf("unexpected vlan mapping: %+v", vlan)
	}
	if len(vlan.ReservedRanges) != 1 || vlan.ReservedRanges[0].Comment != "infra" {
		t.Fatalf("unexpected reserved ranges: %+v", vlan.ReservedRanges)
	}
	if len(vlan.FixedAssignments) != 1 || vlan.FixedAssignments[0].Name != "printer" {
		t.Fatalf("unexpected fixed assignments: %+v", vlan.FixedAssignments)
	}
}

func TestConvertRejectsMalformedJSON(t *testing.T) {
	rec := serve(newHandlerTestAPI(stubService{}, nil), http.MethodPost, "/api/v1/conversions", strings.NewReader(`{"network":`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestConvertRejectsMissingFields(t *testing.T) {
	rec := serve(newHandlerTestAPI(stubService{}, nil), http.MethodPost, "/api/v1/conversions", strings.NewReader(`{"network":{"id":"N_1"},"vlans":[]}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(resp.Error, "network.name failed required") {
		t.Fatalf("expected network.name in error, got %q", resp.Error)
	}
	if !strings.Contains(resp.Error, "vlans failed min=1") {
		t.Fatalf("expected vlans in error, got %q", resp.Error)
	}
}

func TestConvertRejectsUnparseableSubnet(t *testing.T) {
	body := strings.Replace(conversionBody, "10.0.10.0/24", "10.0.10.0/99", 1)
	called := false
	api := newHandlerTestAPI(stubService{
		convertFn: func(context.Context, domain.Network) (domain.Document, error) {
			called = true
			return domain.Document{}, nil
		},
	}, nil)

	rec := serve(api, http.MethodPost, "/api/v1/conversions", strings.NewReader(body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if called {
		t.Fatal("service should not be called for an unmappable network")
	}
}

func TestConvertMapsConversionErrorsToUnprocessable(t *testing.T) {
	for _, target := range unprocessable {
		t.Run(target.Error(), func(t *testing.T) {
			api := newHandlerTestAPI(stubService{
				convertFn: func(context.Context, domain.Network) (domain.Document, error) {
					return domain.Document{}, &domain.VLANError{VLANID: 10, Name: "Users", Err: target}
				},
			}, nil)

			rec := serve(api, http.MethodPost, "/api/v1/conversions", strings.NewReader(conversionBody))

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected %d, got %d", http.StatusUnprocessableEntity, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "vlan 10 (Users)") {
				t.Fatalf("expected vlan context in body, got %q", rec.Body.String())
			}
		})
	}
}

func TestConvertHidesInternalErrors(t *testing.T) {
	api := newHandlerTestAPI(stubService{
		convertFn: func(context.Context, domain.Network) (domain.Document, error) {
			return domain.Document{}, fmt.Errorf("dial tcp: connection refused")
		},
	}, nil)

	rec := serve(api, http.MethodPost, "/api/v1/conversions", strings.NewReader(conversionBody))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal error leaked to client: %q", rec.Body.String())
	}
}

func TestListSnapshotsReturnsSummaries(t *testing.T) {
	api := newHandlerTestAPI(stubService{
		listSnapshotsFn: func(context.Context) ([]domain.Snapshot, error) {
			return []domain.Snapshot{testSnapshot()}, nil
		},
	}, nil)

	rec := serve(api, http.MethodGet, "/api/v1/snapshots", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	var resp []SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(resp))
	}
	if resp[0].ID != testSnapshotID || resp[0].VLANCount != 1 || resp[0].Network != nil {
		t.Fatalf("unexpected summary: %+v", resp[0])
	}
}

func TestListSnapshotsReturnsEmptyArray(t *testing.T) {
	rec := serve(newHandlerTestAPI(stubService{}, nil), http.MethodGet, "/api/v1/snapshots", nil)

	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func TestCreateSnapshotReturnsCreated(t *testing.T) {
	var input domain.CreateSnapshotInput
	api := newHandlerTestAPI(stubService{
		createSnapshotFn: func(_ context.Context, in domain.CreateSnapshotInput) (domain.Snapshot, error) {
			input = in
			s := testSnapshot()
			s.Network = in.Network
			return s, nil
		},
	}, nil)

	rec := serve(api, http.MethodPost, "/api/v1/snapshots", strings.NewReader(conversionBody))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if input.Network.ID != "N_1" {
		t.Fatalf("unexpected input: %+v", input)
	}
	var resp SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.NetworkName != "Branch 12" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetSnapshotReturnsNotFound(t *testing.T) {
	api := newHandlerTestAPI(stubService{
		getSnapshotFn: func(context.Context, domain.SnapshotID) (domain.Snapshot, error) {
			return domain.Snapshot{}, domain.ErrNotFound
		},
	}, nil)

	rec := serve(api, http.MethodGet, "/api/v1/snapshots/"+testSnapshotID, nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected %d, got %d", http.StatusNotFound, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), snapshotNotFound) {
		t.Fatalf("expected snapshot not found body, got %q", rec.Body.String())
	}
}

func TestGetSnapshotIncludesNetwork(t *testing.T) {
	var gotID domain.SnapshotID
	api := newHandlerTestAPI(stubService{
		getSnapshotFn: func(_ context.Context, id domain.SnapshotID) (domain.Snapshot, error) {
			gotID = id
			return testSnapshot(), nil
		},
	}, nil)

	rec := serve(api, http.MethodGet, "/api/v1/snapshots/"+testSnapshotID, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	if gotID != testSnapshotID {
		t.Fatalf("unexpected id %q", gotID)
	}
	var resp SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Network == nil || len(resp.Network.VLANs) != 1 {
		t.Fatalf("expected network detail, got %+v", resp.Network)
	}
	if resp.Network.VLANs[0].DHCPHandling != "Run a DHCP server" {
		t.Fatalf("unexpected handling %q", resp.Network.VLANs[0].DHCPHandling)
	}
}

func TestGetSnapshotRejectsMalformedID(t *testing.T) {
	api := newHandlerTestAPI(stubService{
		getSnapshotFn: func(context.Context, domain.SnapshotID) (domain.Snapshot, error) {
			return domain.Snapshot{}, fmt.Errorf("%w: snapshot id", domain.ErrInvalidInput)
		},
	}, nil)

	rec := serve(api, http.MethodGet, "/api/v1/snapshots/not-a-uuid", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestDeleteSnapshotReturnsNoContent(t *testing.T) {
	rec := serve(newHandlerTestAPI(stubService{}, nil), http.MethodDelete, "/api/v1/snapshots/"+testSnapshotID, nil)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestDeleteSnapshotReturnsNotFound(t *testing.T) {
	api := newHandlerTestAPI(stubService{
		deleteSnapshotFn: func(context.Context, domain.SnapshotID) error {
			return domain.ErrNotFound
		},
	}, nil)

	rec := serve(api, http.MethodDelete, "/api/v1/snapshots/"+testSnapshotID, nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSnapshotConfigReturnsDocument(t *testing.T) {
	api := newHandlerTestAPI(stubService{
		convertSnapshotFn: func(context.Context, domain.SnapshotID) (domain.Document, error) {
			return domain.Document{Lines: []string{"config router bgp", "end"}}, nil
		},
	}, nil)

	rec := serve(api, http.MethodGet, "/api/v1/snapshots/"+testSnapshotID+"/config", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "config router bgp\nend\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestSnapshotInventoryReturnsWorkbook(t *testing.T) {
	api := newHandlerTestAPI(stubService{
		getSnapshotFn: func(context.Context, domain.SnapshotID) (domain.Snapshot, error) {
			return testSnapshot(), nil
		},
	}, nil)

	rec := serve(api, http.MethodGet, "/api/v1/snapshots/"+testSnapshotID+"/inventory", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), testSnapshotID+".xlsx") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Reservations")
	if err != nil {
		t.Fatalf("read reservations: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one reservation, got %d rows", len(rows))
	}
}
