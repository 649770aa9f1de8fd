package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "employee", want: RoleEmployee},
		{input: "Employee", want: RoleEmployee},
		{input: "manager", want: RoleManager},
		{input: "Manager", want: RoleManager},
		{input: "admin", want: RoleAdmin},
		{input: "Admin", want: RoleAdmin},
		{input: "pending", wantErr: true},
		{input: "superuser", wantErr: true},
		{input: "", wantErr: true},
		{input: "EMPLOYEE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
