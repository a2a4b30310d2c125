package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/domain/session"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/repository/state"
	"github.com/oshokin/plugin-logger/internal/service/common"
)

// startRun reports an unclean previous shutdown and records the new run as in progress.
func startRun(ctx context.Context, l *pluginlog.Logger, repo state.Repository, host *common.Host) *session.Run {
	prev, err := repo.Load(ctx)

	switch {
	case err == nil && prev.Crashed():
		l.Warningf("Previous run #%d started at %s did not shut down cleanly, see %s",
			prev.Number, prev.Started.Format(time.DateTime), prev.Archive)
	case err != nil && !errors.Is(err, state.ErrNotFound):
		logger.WarnKV(ctx, "Run journal unreadable, starting a new one", "error", err)
	}

	run := prev.Next(time.Now(), &session.Actor{Hostname: host.Hostname, Username: host.Username})

	if paths := l.Paths(); len(paths) > 0 {
		run.Archive = paths[len(paths)-1]
	}

	if err = repo.Save(ctx, run); err != nil {
		logger.WarnKV(ctx, "Recording run start failed", "error", err)
	}

	l.MsgDirectColor(logline.Gray, fmt.Sprintf("Run #%d", run.Number))

	return run
}

// finishRun records the run as cleanly stopped.
func finishRun(ctx context.Context, repo state.Repository, run *session.Run, ticks int) {
	run.Stopped = time.Now()
	run.Ticks = ticks
	run.Clean = true

	if err := repo.Save(ctx, run); err != nil {
		logger.WarnKV(ctx, "Recording run stop failed", "error", err)
	}
}
