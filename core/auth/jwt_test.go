package auth

import "testing"

func TestGenerateAndParseToken(t *testing.T) {
	InitJWT("test-secret", 1)

	token, err := GenerateToken(42, "miles")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 || claims.Username != "miles" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret", 1)

	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("ParseToken accepted garbage")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword("hunter2", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("hunter3", hash) {
		t.Error("wrong password accepted")
	}
}
