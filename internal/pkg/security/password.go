/*
 * @Description: 仪表盘密码哈希
 * @Date: 2026-10-10 11:40:09
 * @LastEditTime: 2026-10-10 11:52:28
 */
package security

import "golang.org/x/crypto/bcrypt"

// HashPassword 对密码进行哈希处理，结果可直接写入 Analytics.Password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash 验证密码哈希，哈希格式错误视为不匹配
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
