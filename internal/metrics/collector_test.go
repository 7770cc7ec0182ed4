package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// TestCollector_Collect 测试收集器更新计数指标
func TestCollector_Collect(t *testing.T) {
	c := NewCollector(nil, func() int { return 3 }, func() int { return 2 }, time.Hour)
	c.Collect()

	assert.Equal(t, float64(3), testutil.ToFloat64(schedulesTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(draftsActive))
}

// TestCollector_StartStop 测试收集器启动和停止
func TestCollector_StartStop(t *testing.T) {
	c := NewCollector(nil, func() int { return 1 }, nil, 10*time.Millisecond)
	c.Start()
	time.Sleep(30 * time.Millisecond)
	c.Stop()

	assert.Equal(t, float64(1), testutil.ToFloat64(schedulesTotal))
}

// TestRecordOperations 测试操作计数器
func TestRecordOperations(t *testing.T) {
	before := testutil.ToFloat64(scheduleOperationsTotal.WithLabelValues("clone"))
	RecordScheduleOperation("clone")
	assert.Equal(t, before+1, testutil.ToFloat64(scheduleOperationsTotal.WithLabelValues("clone")))

	before = testutil.ToFloat64(blockOperationsTotal.WithLabelValues("create", "template"))
	RecordBlockOperation("create", "template")
	assert.Equal(t, before+1, testutil.ToFloat64(blockOperationsTotal.WithLabelValues("create", "template")))
}
