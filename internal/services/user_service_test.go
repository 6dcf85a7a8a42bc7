package services

import (
	"testing"
	"time"

	"datapi/internal/models"
	"datapi/internal/testutil"
)

func TestBootstrap(t *testing.T) {
	t.Run("creates_initial_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		err := svc.Bootstrap("admin@example.com", "bootstrap-secret")
		testutil.AssertNoError(t, err)

		var user models.AdminUser
		if err := db.Where("email = ?", "admin@example.com").First(&user).Error; err != nil {
			t.Fatalf("expected bootstrap user to exist: %v", err)
		}
		if user.Role != models.AdminRoleAdmin {
			t.Errorf("expected ADMIN role, got %s", user.Role)
		}
		if !user.IsActive {
			t.Error("expected bootstrap user to be active")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		testutil.AssertNoError(t, svc.Bootstrap("admin@example.com", "bootstrap-secret"))
		testutil.AssertNoError(t, svc.Bootstrap("admin@example.com", "bootstrap-secret"))

		var count int64
		db.Model(&models.AdminUser{}).Count(&count)
		if count != 1 {
			t.Errorf("expected a single admin user, got %d", count)
		}
	})

	t.Run("noop_without_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		testutil.AssertNoError(t, svc.Bootstrap("", ""))

		var count int64
		db.Model(&models.AdminUser{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no users, got %d", count)
		}
	})

	t.Run("noop_when_users_exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestAdminUser(t, db, models.AdminRoleEditor)

		testutil.AssertNoError(t, svc.Bootstrap("admin@example.com", "bootstrap-secret"))

		var count int64
		db.Model(&models.AdminUser{}).Count(&count)
		if count != 1 {
			t.Errorf("expected existing user only, got %d", count)
		}
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Editor@Example.com", "password123", "Ed Itor", models.AdminRoleEditor)
		testutil.AssertNoError(t, err)

		if user.Email != "editor@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("editor@example.com", "password123", "Ed", models.AdminRoleEditor)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("EDITOR@example.com", "password123", "Ed", models.AdminRoleEditor)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("short_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("editor@example.com", "short", "Ed", models.AdminRoleEditor)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("editor@example.com", "password123", "Ed", models.AdminRole("SUPERUSER"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestAdminUser(t, db, models.AdminRoleAdmin)

		user, err := svc.AttemptLogin(created.Email, "password123")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login timestamp to be set")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestAdminUser(t, db, models.AdminRoleAdmin)

		_, err := svc.AttemptLogin(created.Email, "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		// Indistinguishable from a wrong password.
		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("inactive_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestAdminUser(t, db, models.AdminRoleAdmin)
		db.Model(created).Update("is_active", false)

		_, err := svc.AttemptLogin(created.Email, "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestAdminUser(t, db, models.AdminRoleAdmin)

		for i := 0; i < maxFailedLogins; i++ {
			_, err := svc.AttemptLogin(created.Email, "wrong-password")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Even the correct password is rejected while locked.
		_, err := svc.AttemptLogin(created.Email, "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("expired_lock_allows_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestAdminUser(t, db, models.AdminRoleAdmin)
		expired := time.Now().Add(-time.Minute)
		db.Model(created).Updates(map[string]interface{}{
			"failed_login_attempts": maxFailedLogins,
			"locked_until":          expired,
		})

		user, err := svc.AttemptLogin(created.Email, "password123")
		testutil.AssertNoError(t, err)

		if user.FailedLoginAttempts != 0 {
			t.Errorf("expected failed attempts reset, got %d", user.FailedLoginAttempts)
		}
		if user.LockedUntil != nil {
			t.Error("expected lock cleared after successful login")
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	t.Run("store_and_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestAdminUser(t, db, models.AdminRoleAdmin)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "hash-one"))

		hash, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "hash-one" {
			t.Errorf("expected hash-one, got %s", hash)
		}

		// A new token replaces the previous one.
		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "hash-two"))
		hash, err = svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "hash-two" {
			t.Errorf("expected hash-two, got %s", hash)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		err := svc.StoreRefreshTokenHash(999, "hash")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")

		_, err = svc.GetRefreshTokenHash(999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
