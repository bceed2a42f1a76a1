package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/protocol"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockProgrammer struct {
	connectErr    error
	disconnectErr error
	connected     bool
	applyErr      error
	readBack      models.ParameterSet
	readBackErr   error
	mismatches    []protocol.FieldMismatch
	verifyErr     error
	stored        models.ParameterSet
	storedErr     error

	connectCalls    int
	disconnectCalls int
	applyCalls      int
	lastApplyOwner  string
	lastApply       models.ParameterSet
	lastReadMode    string
	lastVerify      models.ParameterSet
	lastStoredOwner string
	lastStoredMode  string
}

func (m *mockProgrammer) Connect(ctx context.Context) error {
	m.connectCalls++
	return m.connectErr
}
func (m *mockProgrammer) Disconnect(ctx context.Context) error {
	m.disconnectCalls++
	return m.disconnectErr
}
func (m *mockProgrammer) Connected() bool { return m.connected }
func (m *mockProgrammer) Apply(ctx context.Context, owner string, p models.ParameterSet) error {
	m.applyCalls++
	m.lastApplyOwner = owner
	m.lastApply = p
	return m.applyErr
}
func (m *mockProgrammer) ReadBack(ctx context.Context, mode string) (models.ParameterSet, error) {
	m.lastReadMode = mode
	return m.readBack, m.readBackErr
}
func (m *mockProgrammer) Verify(ctx context.Context, p models.ParameterSet) ([]protocol.FieldMismatch, error) {
	m.lastVerify = p
	return m.mismatches, m.verifyErr
}
func (m *mockProgrammer) Stored(ctx context.Context, owner, mode string) (models.ParameterSet, error) {
	m.lastStoredOwner = owner
	m.lastStoredMode = mode
	return m.stored, m.storedErr
}

type mockTelemetry struct {
	startErr    error
	stopErr     error
	samples     chan models.EgramSample
	status      service.TelemetryStatus
	startCalls  int
	lastChamber string

	// Stop runs on the handler goroutine after the client disconnects.
	mu          sync.Mutex
	stopCalls   int
	stopCtxErrs []error
}

func (m *mockTelemetry) Start(ctx context.Context, chamber string) error {
	m.startCalls++
	m.lastChamber = chamber
	return m.startErr
}
func (m *mockTelemetry) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.stopCtxErrs = append(m.stopCtxErrs, ctx.Err())
	return m.stopErr
}
func (m *mockTelemetry) stopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}
func (m *mockTelemetry) stopCtxErr(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCtxErrs[i]
}
func (m *mockTelemetry) Samples() <-chan models.EgramSample {
	return m.samples
}
func (m *mockTelemetry) Status() service.TelemetryStatus {
	return m.status
}

type mockEventLog struct {
	resp     []models.CommEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.CommEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
