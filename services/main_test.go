package services

import (
	"os"
	"testing"

	"github.com/farmcare/farmcare/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitCustomMetrics(nil)
	os.Exit(m.Run())
}
