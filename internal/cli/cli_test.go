package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = "../adapter/usgs/testdata/all_week_sample.geojson"

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2024-01-01")
	t.Cleanup(func() { SetVersion("", "", "") })

	assert.Equal(t, "1.0.0", version)
	assert.Equal(t, "abc123", commit)
	assert.Equal(t, "2024-01-01", date)
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestSlogBridge(t *testing.T) {
	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.InfoLevel))

	slogFromContext(ctx).Warn("geocode failed", "quake_id", "ak1")
	assert.Contains(t, buf.String(), "geocode failed")
	assert.Contains(t, buf.String(), "ak1")
}

func TestLoggerFromContext_Default(t *testing.T) {
	assert.Equal(t, log.Default(), loggerFromContext(context.Background()))
}

func TestLegendCmd(t *testing.T) {
	out, _, err := execute(t, "legend")
	require.NoError(t, err)

	assert.Contains(t, out, "Depth (km)")
	for _, label := range []string{"0–30", "30–50", "50–70", "70–90", "90+"} {
		assert.Contains(t, out, label)
	}
}

func TestLegendCmd_JSON(t *testing.T) {
	out, _, err := execute(t, "legend", "--json")
	require.NoError(t, err)

	var got []domain.LegendEntry
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.LegendBands(), got)
}

func TestStyleCmd_File(t *testing.T) {
	out, stderr, err := execute(t, "style", "--file", sampleFeed)
	require.NoError(t, err)

	assert.Contains(t, out, "nc00000001")
	assert.Contains(t, out, "24.4")
	assert.NotContains(t, out, "nn00000004")
	assert.Contains(t, stderr, "skipping feature")
	assert.Contains(t, stderr, "Styled 4 features")
}

func TestStyleCmd_NegativeMagnitudeWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "negative.geojson")
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"ci00000009","properties":{"mag":-0.5,"place":"Near Anza, CA"},
		 "geometry":{"type":"Point","coordinates":[-116.6,33.5,4.2]}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, stderr, err := execute(t, "style", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "ci00000009")
	assert.Contains(t, out, "-2")
	assert.Contains(t, stderr, "marker radius is not positive")
	assert.Contains(t, stderr, "Styled 1 features")
	assert.Contains(t, stderr, "rejected=0")
}

func TestStyleCmd_FileJSON(t *testing.T) {
	out, _, err := execute(t, "style", "--file", sampleFeed, "--json")
	require.NoError(t, err)

	var markers []domain.Marker
	require.NoError(t, json.Unmarshal([]byte(out), &markers))
	require.Len(t, markers, 4)

	byID := map[string]domain.Marker{}
	for _, m := range markers {
		byID[m.Quake.ID] = m
	}
	assert.Equal(t, domain.ColorRed, byID["us00000002"].Style.FillColor)
	assert.InDelta(t, domain.MinRadius, byID["hv00000003"].Style.Radius, 0)
	assert.Equal(t, "70–90", byID["ak00000005"].DepthBand)
}

func TestStyleCmd_Feed(t *testing.T) {
	data, err := os.ReadFile(sampleFeed)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	out, _, err := execute(t, "style", "--feed", srv.URL, "--json")
	require.NoError(t, err)

	var markers []domain.Marker
	require.NoError(t, json.Unmarshal([]byte(out), &markers))
	assert.Len(t, markers, 4)
}

func TestStyleCmd_FeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := execute(t, "style", "--feed", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestStyleCmd_MissingFile(t *testing.T) {
	_, _, err := execute(t, "style", "--file", "does-not-exist.geojson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open feed file")
}

func TestStyleCmd_FeedAndFileExclusive(t *testing.T) {
	_, _, err := execute(t, "style", "--feed", "http://example.com", "--file", sampleFeed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
