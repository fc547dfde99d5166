package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"timetrack/backend/services/timetracker-service/internal/models"
	redisstore "timetrack/backend/services/timetracker-service/internal/redis"
	"timetrack/backend/services/timetracker-service/internal/repository"
	"timetrack/backend/services/timetracker-service/internal/timezone"
)

const msgAlreadyActive = "A session is already active for this project! End it before starting a new one."

// ActiveSessionCache keeps a fast lookup of open sessions per project.
type ActiveSessionCache interface {
	Save(ctx context.Context, session redisstore.ActiveSession) error
	Get(ctx context.Context, projectID int64) (*redisstore.ActiveSession, error)
	Delete(ctx context.Context, projectID int64) error
}

// EventPublisher fans session events out to live subscribers.
type EventPublisher interface {
	Publish(event models.SessionEvent)
}

// LifecycleService starts and ends work sessions and keeps project totals.
type LifecycleService struct {
	store       repository.Store
	activeCache ActiveSessionCache
	publisher   EventPublisher
	clock       *timezone.Clock
	logger      *zap.Logger
}

// StartSessionInput identifies the project to start. A zero At means now.
type StartSessionInput struct {
	ProjectID int64
	At        time.Time
}

// EndSessionInput identifies the project to stop. A zero At means now.
type EndSessionInput struct {
	ProjectID   int64
	WorkDetails *string
	At          time.Time
}

// CreateProjectInput carries raw form values for a new project.
type CreateProjectInput struct {
	Name       string
	Type       string
	HourlyRate string
}

// ProjectView is a project with its session history and open session.
type ProjectView struct {
	Project  models.Project
	Sessions []models.Session
	Active   *models.Session
}

// NewLifecycleService builds service. activeCache and publisher may be nil.
func NewLifecycleService(
	store repository.Store,
	activeCache ActiveSessionCache,
	publisher EventPublisher,
	clock *timezone.Clock,
	logger *zap.Logger,
) *LifecycleService {
	if clock == nil {
		clock = timezone.NewClock(timezone.SAST)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		store:       store,
		activeCache: activeCache,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// StartSession opens a session for the project unless one is already open.
func (s *LifecycleService) StartSession(ctx context.Context, input StartSessionInput) (*Result, error) {
	at := s.instant(input.At)

	var (
		project *models.Project
		session *models.Session
		result  *Result
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		project, err = tx.LockProject(ctx, input.ProjectID)
		if err != nil {
			return err
		}

		open, err := tx.OpenSession(ctx, input.ProjectID)
		switch {
		case err == nil:
			result = &Result{
				Outcome: OutcomeAlreadyActive,
				Message: msgAlreadyActive,
				Project: project,
				Session: open,
			}
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		session = &models.Session{ProjectID: input.ProjectID, StartTime: at}
		return tx.InsertSession(ctx, session)
	})
	switch {
	case errors.Is(err, repository.ErrOpenSessionExists):
		s.logger.Info("concurrent session start rejected", zap.Int64("project_id", input.ProjectID))
		return rejected(OutcomeAlreadyActive, msgAlreadyActive), nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrProjectNotFound
	case err != nil:
		return nil, fmt.Errorf("start session: %w", err)
	}
	if result != nil {
		return result, nil
	}

	if s.activeCache != nil {
		cacheErr := s.activeCache.Save(ctx, redisstore.ActiveSession{
			SessionID:   session.ID,
			ProjectID:   project.ID,
			ProjectName: project.Name,
			StartTime:   session.StartTime,
		})
		if cacheErr != nil {
			s.logger.Warn("failed to cache active session", zap.Int64("project_id", project.ID), zap.Error(cacheErr))
		}
	}
	s.publish(models.EventSessionStarted, project, session)

	s.logger.Info("session started",
		zap.Int64("project_id", project.ID),
		zap.Int64("session_id", session.ID),
		zap.Time("start_time", session.StartTime),
	)
	return &Result{
		Outcome: OutcomeSuccess,
		Message: "Session started!",
		Project: project,
		Session: session,
	}, nil
}

// EndSession closes the project's open session and adds its duration to
// the project totals.
func (s *LifecycleService) EndSession(ctx context.Context, input EndSessionInput) (*Result, error) {
	at := s.instant(input.At)

	var (
		project *models.Project
		session *models.Session
		result  *Result
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		project, err = tx.LockProject(ctx, input.ProjectID)
		if err != nil {
			return err
		}

		session, err = tx.OpenSession(ctx, input.ProjectID)
		if errors.Is(err, repository.ErrNotFound) {
			result = &Result{
				Outcome: OutcomeNoActiveSession,
				Message: "No active session to end for this project!",
				Project: project,
			}
			return nil
		}
		if err != nil {
			return err
		}

		if session.StartTimeNaive {
			session.StartTime = s.clock.Localize(session.StartTime)
			session.StartTimeNaive = false
		}
		end := at
		session.EndTime = &end
		session.DurationSeconds = ElapsedSeconds(session.StartTime, end)
		session.WorkDetails = input.WorkDetails
		if err := tx.CloseSession(ctx, session); err != nil {
			return err
		}

		ApplySession(project, session.DurationSeconds)
		return tx.UpdateProjectTotals(ctx, project)
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrProjectNotFound
	case err != nil:
		return nil, fmt.Errorf("end session: %w", err)
	}
	if result != nil {
		return result, nil
	}

	if s.activeCache != nil {
		if err := s.activeCache.Delete(ctx, project.ID); err != nil {
			s.logger.Warn("failed to delete active session cache", zap.Int64("project_id", project.ID), zap.Error(err))
		}
	}
	s.publish(models.EventSessionEnded, project, session)

	s.logger.Info("session ended",
		zap.Int64("project_id", project.ID),
		zap.Int64("session_id", session.ID),
		zap.Int64("duration_seconds", session.DurationSeconds),
	)
	return &Result{
		Outcome: OutcomeSuccess,
		Message: "Session ended and time logged!",
		Project: project,
		Session: session,
	}, nil
}

// CreateProject validates the raw input and inserts a project with zero totals.
func (s *LifecycleService) CreateProject(ctx context.Context, input CreateProjectInput) (*Result, error) {
	name := strings.TrimSpace(input.Name)
	projectType := strings.TrimSpace(input.Type)
	if name == "" {
		return rejected(OutcomeInvalidInput, "Project name is required."), nil
	}
	if projectType == "" {
		return rejected(OutcomeInvalidInput, "Project type is required."), nil
	}

	rate := 0.0
	if raw := strings.TrimSpace(input.HourlyRate); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return rejected(OutcomeInvalidInput, "Invalid hourly rate. Please enter a number."), nil
		}
		if parsed < 0 {
			return rejected(OutcomeInvalidInput, "Hourly rate cannot be negative."), nil
		}
		rate = parsed
	}

	project := &models.Project{Name: name, Type: projectType, HourlyRate: rate}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.logger.Info("project created", zap.Int64("project_id", project.ID), zap.String("name", project.Name))
	return &Result{
		Outcome: OutcomeSuccess,
		Message: "Project created successfully!",
		Project: project,
	}, nil
}

// GetProject returns a project by id.
func (s *LifecycleService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	return project, err
}

// ListProjects returns every project.
func (s *LifecycleService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx)
}

// ListSessions returns the project's session history, newest first.
func (s *LifecycleService) ListSessions(ctx context.Context, projectID int64) ([]models.Session, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		s.normalize(&sessions[i])
	}
	return sessions, nil
}

// ProjectDetail loads everything the project page shows.
func (s *LifecycleService) ProjectDetail(ctx context.Context, projectID int64) (*ProjectView, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	view := &ProjectView{Project: *project, Sessions: sessions}
	for i := range view.Sessions {
		s.normalize(&view.Sessions[i])
		if view.Sessions[i].Active() && view.Active == nil {
			view.Active = &view.Sessions[i]
		}
	}
	return view, nil
}

// ActiveSession returns the project's open session, or nil when there is none.
// The cache is consulted first; the store is authoritative on a miss.
func (s *LifecycleService) ActiveSession(ctx context.Context, projectID int64) (*models.Session, error) {
	if s.activeCache != nil {
		cached, err := s.activeCache.Get(ctx, projectID)
		if err == nil {
			return &models.Session{
				ID:        cached.SessionID,
				ProjectID: cached.ProjectID,
				StartTime: s.clock.In(cached.StartTime),
			}, nil
		}
		if !errors.Is(err, redisstore.ErrMiss) {
			s.logger.Warn("failed to read active session cache", zap.Int64("project_id", projectID), zap.Error(err))
		}
	}

	view, err := s.ProjectDetail(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return view.Active, nil
}

// ListActiveSessions returns every open session across projects.
func (s *LifecycleService) ListActiveSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.store.ListOpenSessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		s.normalize(&sessions[i])
	}
	return sessions, nil
}

// Now returns the current instant in the service's zone.
func (s *LifecycleService) Now() time.Time {
	return s.clock.Now()
}

func (s *LifecycleService) instant(at time.Time) time.Time {
	if at.IsZero() {
		return s.clock.Now()
	}
	return s.clock.In(at)
}

// normalize presents stored timestamps in the service's zone.
func (s *LifecycleService) normalize(session *models.Session) {
	if session.StartTimeNaive {
		session.StartTime = s.clock.Localize(session.StartTime)
		session.StartTimeNaive = false
	} else {
		session.StartTime = s.clock.In(session.StartTime)
	}
	if session.EndTime != nil {
		end := s.clock.In(*session.EndTime)
		session.EndTime = &end
	}
}

func (s *LifecycleService) publish(eventType string, project *models.Project, session *models.Session) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(models.SessionEvent{
		Type:       eventType,
		Project:    *project,
		Session:    *session,
		OccurredAt: s.clock.Now(),
	})
}
