package main

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/pipeline"
)

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// readLines returns the trimmed, non-blank lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, eris.Wrapf(sc.Err(), "read %s", path)
}

func logReports(reports []pipeline.StageReport) {
	for _, r := range reports {
		zap.L().Info("stage",
			zap.String("stage", r.Stage),
			zap.Int("before", r.Before),
			zap.Int("after", r.After),
		)
	}
}
