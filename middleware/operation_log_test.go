package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDataMasksSensitiveFields(t *testing.T) {
	input := map[string]interface{}{
		"loginId":  "sales01",
		"password": "secret123!",
		"Token":    "abc.def.ghi",
		"profile": map[string]interface{}{
			"name":   "김영업",
			"secret": "hidden",
		},
		"items": []interface{}{
			map[string]interface{}{"authorization": "Bearer xyz"},
		},
	}

	out := sanitizeData(input).(map[string]interface{})

	assert.Equal(t, "sales01", out["loginId"])
	assert.Equal(t, "******", out["password"])
	assert.Equal(t, "******", out["Token"])

	profile := out["profile"].(map[string]interface{})
	assert.Equal(t, "김영업", profile["name"])
	assert.Equal(t, "******", profile["secret"])

	items := out["items"].([]interface{})
	assert.Equal(t, "******", items[0].(map[string]interface{})["authorization"])
}

func TestSanitizeDataPassesThroughScalars(t *testing.T) {
	assert.Nil(t, sanitizeData(nil))
	assert.Equal(t, "plain", sanitizeData("plain"))
	assert.Equal(t, 42, sanitizeData(42))
}
