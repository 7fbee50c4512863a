package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"하이픈 제거", "010-1234-5678", "01012345678"},
		{"공백 제거", "010 1234 5678", "01012345678"},
		{"괄호 혼합", "(010) 1234-5678", "01012345678"},
		{"전각 숫자 폴딩", "０１０-１２３４-５６７８", "01012345678"},
		{"이미 정규화된 번호", "01012345678", "01012345678"},
		{"숫자 없음", "abc", ""},
		{"빈 문자열", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePhone(tc.input))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("01012345678"))
	assert.True(t, IsValidPhone("0101234567")) // 옛 10자리 번호
	assert.True(t, IsValidPhone("01612345678"))

	assert.False(t, IsValidPhone("0212345678"))   // 유선 번호
	assert.False(t, IsValidPhone("010123456"))    // 자릿수 부족
	assert.False(t, IsValidPhone("010123456789")) // 자릿수 초과
	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("010-1234-5678")) // 정규화 전 형태
}
