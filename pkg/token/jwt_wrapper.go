package token

import "team_chat_service/pkg/config"

// 這個變數會在測試時被覆蓋
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper issue a token for userID, issuer is the chat service
func GenerateJWTWrapper(userID uint, role string) (string, error) {
	return GenerateJWTFunc(userID, role, config.EnvConfig.ChatService)
}

// ParseJWTWrapper 讓 middleware test mock 使用這個包裝函數
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
