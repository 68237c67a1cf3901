package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-rooms/mocks"
)

func TestStatsWorker_ReadsRegistryAndStopsOnCancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryMock := mocks.NewMockIRegistry(ctrl)
	registryMock.EXPECT().Counts().Return(2, 5).MinTimes(1)

	w := NewStatsWorker(slog.Default(), registryMock, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Let a few ticks pass, then cancel
	time.Sleep(70 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(500 * time.Millisecond):
		req.Fail("stats worker should stop when its context is canceled")
	}
}
