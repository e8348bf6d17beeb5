package util

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword 校验密码。
// 新账号使用 bcrypt；早期前端写入的是无盐 SHA-256 十六进制串，继续兼容。
func CheckPassword(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	if len(stored) != sha256.Size*2 {
		return false
	}
	sum := sha256.Sum256([]byte(password))
	legacy := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(legacy)) == 1
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// CheckDummyPassword 用户不存在时执行一次等价的 bcrypt 比较，使响应耗时与密码错误一致，始终返回 false
func CheckDummyPassword(password string) bool {
	dummyHashOnce.Do(func() {
		// 含 NUL 字节，登录表单无法提交
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("\x00unused-account\x00"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}

// IsLegacyHash 是否为旧的 SHA-256 哈希，登录成功后可升级
func IsLegacyHash(stored string) bool {
	return !strings.HasPrefix(stored, "$2")
}
