package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestTeamService_MergeTeams(t *testing.T) {
	t.Parallel()

	now := time.Now()
	deleted := now.Add(-time.Hour)

	teams := map[int64]*models.Team{
		1: {ID: 1, Name: "acme"},
		2: {ID: 2, Name: "globex"},
		3: {ID: 3, Name: "initech", DeletedAt: &deleted},
	}

	tests := []struct {
		name     string
		sourceID int64
		targetID int64
		wantErr  error
	}{
		{name: "valid merge", sourceID: 1, targetID: 2},
		{name: "source equals target", sourceID: 1, targetID: 1, wantErr: models.ErrMergeSelf},
		{name: "source missing", sourceID: 99, targetID: 2, wantErr: models.ErrTeamNotFound},
		{name: "target missing", sourceID: 1, targetID: 99, wantErr: models.ErrTeamNotFound},
		{name: "target deleted", sourceID: 1, targetID: 3, wantErr: models.ErrTeamDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &mockTeamStore{
				getTeam: func(_ context.Context, id int64) (*models.Team, error) {
					team, ok := teams[id]
					if !ok {
						return nil, models.ErrTeamNotFound
					}
					return team, nil
				},
				mergeTeams: func(_ context.Context, sourceID, targetID int64) (*models.MergeResult, error) {
					return &models.MergeResult{
						SourceTeamID: sourceID,
						TargetTeamID: targetID,
						MovedUsers:   3,
						MovedKeys:    2,
					}, nil
				},
			}

			audit := &mockAuditEnqueuer{}
			events := &mockPublisher{}
			svc := NewTeamService(store, audit, events, quietLogger())

			result, err := svc.MergeTeams(context.Background(), "admin@example.com", tt.sourceID, tt.targetID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("MergeTeams() error = %v, want %v", err, tt.wantErr)
				}
				for _, call := range store.calls {
					if call == "MergeTeams" {
						t.Error("MergeTeams reached the store despite failed validation")
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("MergeTeams() error = %v", err)
			}
			if result.MovedUsers != 3 || result.MovedKeys != 2 {
				t.Errorf("result = %+v, want 3 users and 2 keys moved", result)
			}
			if len(audit.getEntries()) != 1 {
				t.Errorf("audit entries = %d, want 1", len(audit.getEntries()))
			}
			if len(events.getEvents()) != 2 {
				t.Errorf("change events = %d, want 2 (target update, source delete)", len(events.getEvents()))
			}
		})
	}
}

func TestTeamService_DeleteTeamIsSoft(t *testing.T) {
	t.Parallel()

	store := &mockTeamStore{
		softDelete: func(_ context.Context, id int64) error {
			if id != 7 {
				return models.ErrTeamNotFound
			}
			return nil
		},
	}
	audit := &mockAuditEnqueuer{}
	svc := NewTeamService(store, audit, nil, quietLogger())

	if err := svc.DeleteTeam(context.Background(), "admin@example.com", 7); err != nil {
		t.Fatalf("DeleteTeam() error = %v", err)
	}

	entries := audit.getEntries()
	if len(entries) != 1 || entries[0].EventType != "team.delete" {
		t.Fatalf("audit entries = %+v, want one team.delete", entries)
	}
}
