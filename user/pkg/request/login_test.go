package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginMasksPassword(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestRegisterMasksPassword(t *testing.T) {
	registerReq := Register{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
		Password: "hunter2hunter2",
	}

	actual, err := json.Marshal(registerReq)

	assert.NoError(t, err)
	assert.Contains(t, string(actual), `"password":"***"`)
	assert.EqualValues(t, "hunter2hunter2", registerReq.Password)
}
