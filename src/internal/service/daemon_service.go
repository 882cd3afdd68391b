package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/domain"
	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/valvulaconf"
)

// HealthStatus is the result of a daemon check.
type HealthStatus struct {
	// Started is true when the pid file exists.
	Started bool `json:"started"`
	// Healthy is true when valvulad answered the ping.
	Healthy bool `json:"healthy"`
	// Recovered is true when a restart was attempted.
	Recovered bool   `json:"recovered"`
	Message   string `json:"message"`
}

// DaemonService controls the valvulad daemon and its runtime settings.
type DaemonService struct {
	cfg      *config.Config
	executor domain.CommandExecutor
}

// NewDaemonService creates a new daemon service.
func NewDaemonService(cfg *config.Config, executor domain.CommandExecutor) *DaemonService {
	return &DaemonService{cfg: cfg, executor: executor}
}

// Ping asks the running daemon to answer (valvulad -p).
func (s *DaemonService) Ping(ctx context.Context) error {
	if out, err := s.executor.Run(ctx, s.cfg.Valvula.Binary, "-p"); err != nil {
		return errors.NewServiceError(fmt.Sprintf("valvulad ping failed: %s", out), err)
	}
	return nil
}

// CheckDatabase verifies the configured database credentials (valvulad -b).
func (s *DaemonService) CheckDatabase(ctx context.Context) error {
	if out, err := s.executor.Run(ctx, s.cfg.Valvula.Binary, "-b"); err != nil {
		return errors.NewServiceError(fmt.Sprintf("valvulad database check failed: %s", out), err)
	}
	return nil
}

// Health reports whether the daemon is started and answering, without
// trying to recover it.
func (s *DaemonService) Health(ctx context.Context) HealthStatus {
	if !s.started() {
		return HealthStatus{Message: "valvulad is not running and was not started"}
	}
	if err := s.Ping(ctx); err != nil {
		return HealthStatus{Started: true, Message: err.Error()}
	}
	return HealthStatus{Started: true, Healthy: true, Message: "valvulad server is working right"}
}

// Check pings the daemon and restarts it when it does not answer. A daemon
// that was never started (no pid file) is left alone.
func (s *DaemonService) Check(ctx context.Context) (HealthStatus, error) {
	status := s.Health(ctx)
	if !status.Started || status.Healthy {
		return status, nil
	}

	log.Errorf("Valvula is failing, trying to recover it")
	status.Recovered = true
	if err := s.Recover(ctx); err != nil {
		status.Message = err.Error()
		return status, err
	}
	status.Message = "valvulad restarted"
	return status, nil
}

// Recover removes the pid file, kills every valvulad process and restarts the service.
func (s *DaemonService) Recover(ctx context.Context) error {
	if pid := s.cfg.GetAbsPidFile(); pid != "" {
		if err := os.Remove(pid); err != nil && !os.IsNotExist(err) {
			log.Warnf("Failed to remove %s: %v", pid, err)
		}
	}

	process := filepath.Base(s.cfg.Valvula.Binary)
	for i := 0; i < 2; i++ {
		if _, err := s.executor.Run(ctx, "killall", "-9", process); err != nil {
			log.Debugf("killall: %v", err)
		}
	}

	if _, err := s.executor.Run(ctx, "service", s.cfg.Valvula.ServiceName, "stop"); err != nil {
		log.Debugf("service stop: %v", err)
	}
	if out, err := s.executor.Run(ctx, "service", s.cfg.Valvula.ServiceName, "start"); err != nil {
		return errors.NewServiceError(fmt.Sprintf("failed to start %s: %s", s.cfg.Valvula.ServiceName, out), err)
	}
	return nil
}

func (s *DaemonService) started() bool {
	pid := s.cfg.GetAbsPidFile()
	if pid == "" {
		return false
	}
	_, err := os.Stat(pid)
	return err == nil
}

// ConfigureDatabase stores new MySQL credentials and verifies them with
// valvulad. When the check fails the previous values are written back.
func (s *DaemonService) ConfigureDatabase(ctx context.Context, db valvulaconf.DatabaseSettings) error {
	doc, err := loadValvulaConf(s.cfg)
	if err != nil {
		return err
	}

	old, err := doc.Database()
	if err != nil {
		return err
	}
	if err := doc.SetDatabase(db); err != nil {
		return err
	}
	if err := doc.Save(); err != nil {
		return err
	}

	checkErr := s.CheckDatabase(ctx)
	if checkErr == nil {
		return nil
	}

	log.Errorf("Credentials provided aren't working (%s %s), restoring previous values", db.DBName, db.User)
	if err := doc.SetDatabase(old); err != nil {
		return err
	}
	if err := doc.Save(); err != nil {
		return err
	}
	return checkErr
}

// SetUser makes valvulad drop privileges to user and group.
func (s *DaemonService) SetUser(user, group string) error {
	doc, err := loadValvulaConf(s.cfg)
	if err != nil {
		return err
	}
	if err := doc.SetRunning(user, group); err != nil {
		return err
	}
	return doc.Save()
}
