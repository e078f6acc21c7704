package jobs

import (
	"context"
	"testing"

	"innkeep/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestReconciliationJobSkipsOverlappingRun(t *testing.T) {
	// A nil service would panic if the tick ran; the in-flight guard must
	// short-circuit first.
	job := NewReconciliationJob(nil, services.EveryMinute)
	job.running.Store(true)

	err := job.Execute(context.Background())

	assert.NoError(t, err)
	assert.True(t, job.running.Load())
}

func TestReconciliationJobName(t *testing.T) {
	job := NewReconciliationJob(nil, services.EveryMinute)
	assert.Equal(t, "StatusReconciliationTick", job.Name())
	assert.Equal(t, services.EveryMinute, job.Schedule())
}
