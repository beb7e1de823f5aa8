package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/storage"
)

func TestLocalLogRepositoryPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalLogRepository(storage.NewMemoryStore())

	for i := 0; i < 5; i++ {
		userID := "u1"
		if i%2 == 1 {
			userID = "u2"
		}
		if err := repo.SaveLog(ctx, &models.LogEntry{UserID: userID, Action: fmt.Sprintf("A%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	logs, err := repo.GetAllLogs(ctx, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 || logs[0].Action != "A4" || logs[1].Action != "A3" {
		t.Fatalf("page 1 = %v", actions(logs))
	}
	if logs[0].ID == "" || logs[0].Timestamp.IsZero() {
		t.Fatalf("id/timestamp not stamped: %+v", logs[0])
	}

	logs, _ = repo.GetAllLogs(ctx, 3, 2)
	if len(logs) != 1 || logs[0].Action != "A0" {
		t.Fatalf("page 3 = %v", actions(logs))
	}

	logs, _ = repo.GetLogsByUserID(ctx, "u1", 1, 10)
	if got := actions(logs); fmt.Sprint(got) != "[A4 A2 A0]" {
		t.Fatalf("u1 logs = %v", got)
	}

	logs, _ = repo.GetAllLogs(ctx, 0, 0)
	if len(logs) != 5 {
		t.Fatalf("default paging returned %d entries", len(logs))
	}
}

func TestLocalLogRepositoryCap(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalLogRepository(storage.NewMemoryStore())
	for i := 0; i < MaxLocalLogEntries+3; i++ {
		if err := repo.SaveLog(ctx, &models.LogEntry{Action: fmt.Sprintf("A%d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	all, err := repo.load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != MaxLocalLogEntries || all[0].Action != "A3" {
		t.Fatalf("cap not applied: len=%d first=%s", len(all), all[0].Action)
	}
}

func actions(logs []*models.LogEntry) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Action
	}
	return out
}
