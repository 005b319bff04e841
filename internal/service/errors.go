package service

import "errors"

var (
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrInvalidPassword 旧密码不正确
	ErrInvalidPassword = errors.New("旧密码不正确")
	// ErrWeakPassword 新密码不符合策略
	ErrWeakPassword = errors.New("密码长度至少 8 位")
	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("记录已存在")
)
