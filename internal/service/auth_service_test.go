package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fanli-next/internal/config"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, *AuthService) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireHours = 2
	svc := NewAuthService(cfg, repository.NewAdminRepository(db))
	return db, svc
}

func seedAuthAdmin(t *testing.T, db *gorm.DB, svc *AuthService, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("密码加密失败: %v", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("写入管理员失败: %v", err)
	}
	return admin
}

func TestHashAndVerifyPassword(t *testing.T) {
	_, svc := setupAuthTest(t)

	hash, err := svc.HashPassword("secret-pass-1")
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}
	if hash == "secret-pass-1" {
		t.Fatal("密码不能以明文存储")
	}
	if err := svc.VerifyPassword(hash, "secret-pass-1"); err != nil {
		t.Fatalf("正确密码校验失败: %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong-pass"); err == nil {
		t.Fatal("错误密码应校验失败")
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	_, svc := setupAuthTest(t)

	admin := &models.Admin{ID: 7, Username: "ops"}
	token, expiresAt, err := svc.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("过期时间应在未来")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.AdminID != 7 || claims.Username != "ops" {
		t.Fatalf("claims 不符: %+v", claims)
	}

	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatal("被篡改的 token 应解析失败")
	}
}

func TestLogin(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedAuthAdmin(t, db, svc, "admin", "secret-pass-1")

	if _, _, _, err := svc.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("密码错误应返回 ErrInvalidCredentials，得到: %v", err)
	}
	if _, _, _, err := svc.Login("ghost", "secret-pass-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("账号不存在应返回 ErrInvalidCredentials，得到: %v", err)
	}

	admin, token, _, err := svc.Login("admin", "secret-pass-1")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if token == "" {
		t.Fatal("登录应返回 token")
	}
	if admin.LastLoginAt == nil {
		t.Fatal("登录应更新最后登录时间")
	}
}

func TestChangePassword(t *testing.T) {
	db, svc := setupAuthTest(t)
	admin := seedAuthAdmin(t, db, svc, "admin", "secret-pass-1")

	if err := svc.ChangePassword(admin.ID, "wrong", "new-secret-pass"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("旧密码错误应返回 ErrInvalidPassword，得到: %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "secret-pass-1", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("弱密码应返回 ErrWeakPassword，得到: %v", err)
	}
	if err := svc.ChangePassword(999, "secret-pass-1", "new-secret-pass"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("管理员不存在应返回 ErrNotFound，得到: %v", err)
	}

	if err := svc.ChangePassword(admin.ID, "secret-pass-1", "new-secret-pass"); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}
	if _, _, _, err := svc.Login("admin", "new-secret-pass"); err != nil {
		t.Fatalf("新密码登录失败: %v", err)
	}
	if _, _, _, err := svc.Login("admin", "secret-pass-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("旧密码应失效，得到: %v", err)
	}
}
