package store

import (
	"context"
	"testing"
	"time"
)

func TestCreateAdminUserAndLookup(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	created, err := st.CreateAdminUser(ctx, "Admin@Sumpro.dev", "hash-1", now)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if created.Email != "admin@sumpro.dev" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Role != authUserRoleAdmin {
		t.Fatalf("expected admin role, got %q", created.Role)
	}

	got, err := st.GetUserByEmail(ctx, "ADMIN@sumpro.dev")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected user %s, got %+v", created.ID, got)
	}

	count, err := st.CountEnabledUsers(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 enabled user, got %d", count)
	}
}

func TestCreateAdminUserRejectsDuplicateEmail(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := st.CreateAdminUser(ctx, "admin@sumpro.dev", "hash-1", now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.CreateAdminUser(ctx, "admin@sumpro.dev", "hash-2", now); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestSessionLifecycle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	user, err := st.CreateAdminUser(ctx, "admin@sumpro.dev", "hash-1", now)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if err := st.CreateSession(ctx, user.ID, "tok-hash", now.Add(time.Hour), now); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := st.GetUserBySessionTokenHash(ctx, "tok-hash", now)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("expected session to resolve to %s, got %+v", user.ID, got)
	}

	t.Run("expired session does not resolve", func(t *testing.T) {
		got, err := st.GetUserBySessionTokenHash(ctx, "tok-hash", now.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != nil {
			t.Fatal("expected expired session to be rejected")
		}
	})

	t.Run("revoked session does not resolve", func(t *testing.T) {
		if err := st.RevokeSessionByTokenHash(ctx, "tok-hash", now); err != nil {
			t.Fatalf("revoke: %v", err)
		}
		got, err := st.GetUserBySessionTokenHash(ctx, "tok-hash", now)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != nil {
			t.Fatal("expected revoked session to be rejected")
		}
	})
}

func TestDisablingUserRevokesSessions(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	user, err := st.CreateAdminUser(ctx, "admin@sumpro.dev", "hash-1", now)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := st.CreateSession(ctx, user.ID, "tok-hash", now.Add(time.Hour), now); err != nil {
		t.Fatalf("create session: %v", err)
	}

	updated, err := st.SetUserDisabled(ctx, "admin@sumpro.dev", true, now)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if !updated.Disabled {
		t.Fatal("expected user to be disabled")
	}

	got, err := st.GetUserBySessionTokenHash(ctx, "tok-hash", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != nil {
		t.Fatal("expected sessions of a disabled user to be rejected")
	}
}

func TestSetUserDisabledUnknownEmail(t *testing.T) {
	st := testStore(t)

	updated, err := st.SetUserDisabled(context.Background(), "nobody@sumpro.dev", true, time.Now().UTC())
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil for unknown email, got %+v", updated)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	user, err := st.CreateAdminUser(ctx, "admin@sumpro.dev", "hash-1", now)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := st.CreateSession(ctx, user.ID, "tok-live", now.Add(time.Hour), now); err != nil {
		t.Fatalf("create live session: %v", err)
	}
	if err := st.CreateSession(ctx, user.ID, "tok-dead", now.Add(-time.Hour), now.Add(-2*time.Hour)); err != nil {
		t.Fatalf("create expired session: %v", err)
	}

	removed, err := st.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed session, got %d", removed)
	}
}
