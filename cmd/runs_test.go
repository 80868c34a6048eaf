package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/creditscore-cli/internal/model"
)

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("12345678-abcd-efgh"))
	assert.Equal(t, "short", truncateID("short"))
	assert.Equal(t, "", truncateID(""))
}

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "aaaaaaaa-1111-2222-3333-444444444444",
			Source:    "reports/john-doe.pdf",
			Status:    model.RunStatusComplete,
			Result:    &model.ScoreResult{RawScore: 3, Grade: 2},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "bbbbbbbb-1111-2222-3333-444444444444",
			Source:    "reports/" + strings.Repeat("x", 60) + ".pdf",
			Status:    model.RunStatusFailed,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "reports/john-doe.pdf")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "failed")

	// Failed run with no result shows dashes for score and grade.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "bbbbbbbb") {
			assert.Contains(t, line, "-")
			assert.Contains(t, line, "...")
		}
	}
}
