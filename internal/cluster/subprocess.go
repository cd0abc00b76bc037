package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout is the hard wall-clock budget for one clustering run.
const DefaultTimeout = 120 * time.Second

// Subprocess invokes an external clustering program. The article list is
// serialized as a JSON array on stdin; the program must print a single JSON
// object (cluster key -> array of article texts) on stdout and exit zero.
// The process is killed when the timeout elapses.
type Subprocess struct {
	// Command is the program and its arguments, e.g.
	// ["python3", "scripts/cluster_perspectives.py"] or ["clusterd"].
	Command []string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

func (s *Subprocess) Cluster(ctx context.Context, articles []string) (Partition, error) {
	if len(articles) == 0 {
		return nil, ErrEmptyInput
	}
	if len(s.Command) == 0 {
		return nil, errors.New("clustering command not configured")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	input, err := json.Marshal(articles)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Do not wait on inherited pipes after the kill.
	cmd.WaitDelay = 2 * time.Second

	log.Debug().Int("articles", len(articles)).Strs("command", s.Command).Msg("running clustering subprocess")
	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, ErrTimeout
	}
	if runErr != nil {
		return nil, &FailedError{Stderr: strings.TrimSpace(stderr.String()), Err: runErr}
	}

	var partition Partition
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &partition); err != nil {
		return nil, &FailedError{
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    errors.New("failed to parse clustering output"),
		}
	}
	// Empty clusters carry no information; drop them so the partition
	// property holds for whatever the program produced.
	for key, members := range partition {
		if len(members) == 0 {
			delete(partition, key)
		}
	}
	return partition, nil
}
