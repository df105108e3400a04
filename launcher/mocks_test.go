package launcher

import (
	"context"
	"sync/atomic"

	"github.com/stretchr/testify/mock"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) LoginWithRefreshToken(ctx context.Context, token string) (TokenSession, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(TokenSession), args.Error(1)
}

func (m *mockAuthenticator) LoginInteractive(ctx context.Context) (TokenSession, error) {
	args := m.Called(ctx)
	return args.Get(0).(TokenSession), args.Error(1)
}

type mockUpdater struct {
	mock.Mock
}

func (m *mockUpdater) Update(ctx context.Context, req UpdateRequest, sink ProgressSink) error {
	return m.Called(ctx, req, sink).Error(0)
}

type mockProcessLauncher struct {
	mock.Mock
}

func (m *mockProcessLauncher) Launch(ctx context.Context, req LaunchRequest) (Process, error) {
	args := m.Called(ctx, req)
	proc, _ := args.Get(0).(Process)
	return proc, args.Error(1)
}

// fakeProcess exits with code once release is closed.
type fakeProcess struct {
	pid     int
	code    int
	waitErr error
	release chan struct{}
	waits   atomic.Int32
}

func newFakeProcess(pid, code int) *fakeProcess {
	return &fakeProcess{pid: pid, code: code, release: make(chan struct{})}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() (int, error) {
	p.waits.Add(1)
	<-p.release
	return p.code, p.waitErr
}

func (p *fakeProcess) Kill() error {
	close(p.release)
	return nil
}
