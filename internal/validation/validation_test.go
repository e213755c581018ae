package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fallacyfinder/internal/models"
)

type startRequest struct {
	PlayerName string `json:"playerName" validate:"required,min=1,max=100,playername"`
	Difficulty string `json:"difficulty" validate:"required,difficulty"`
}

type submitRequest struct {
	SessionID          string  `json:"sessionId" validate:"required,uuid"`
	SelectedFallacyIDs []int64 `json:"selectedFallacyIds"`
}

func TestStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     any
		wantField string
	}{
		{
			name:  "valid start",
			input: startRequest{PlayerName: "Ada Lovelace", Difficulty: "medium"},
		},
		{
			name:      "missing name",
			input:     startRequest{Difficulty: "Easy"},
			wantField: "playerName",
		},
		{
			name:      "name too long",
			input:     startRequest{PlayerName: string(make([]byte, 101)), Difficulty: "Easy"},
			wantField: "playerName",
		},
		{
			name:  "punctuation and emoji in name",
			input: startRequest{PlayerName: "Zoë 🎉 #1", Difficulty: "Easy"},
		},
		{
			name:      "newline in name",
			input:     startRequest{PlayerName: "Ada\nLovelace", Difficulty: "Easy"},
			wantField: "playerName",
		},
		{
			name:      "unknown difficulty",
			input:     startRequest{PlayerName: "Ada", Difficulty: "Impossible"},
			wantField: "difficulty",
		},
		{
			name:  "valid submit",
			input: submitRequest{SessionID: "4a0c2a8e-5d0e-4a51-9f3f-2f1c3c0b9d11", SelectedFallacyIDs: []int64{1, 2}},
		},
		{
			name:  "empty selection is allowed",
			input: submitRequest{SessionID: "4a0c2a8e-5d0e-4a51-9f3f-2f1c3c0b9d11"},
		},
		{
			name:      "bad session id",
			input:     submitRequest{SessionID: "42"},
			wantField: "sessionId",
		},
		{
			name:  "unknown fallacy ids are left to the reconciler",
			input: submitRequest{SessionID: "4a0c2a8e-5d0e-4a51-9f3f-2f1c3c0b9d11", SelectedFallacyIDs: []int64{0, -3, 999}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestValidPlayerName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Ada", true},
		{"O'Brien!", true},
		{"Player#1", true},
		{"ana@school", true},
		{"Zoë 🎉", true},
		{"tab\there", false},
		{"line\nbreak", false},
		{"bell\a", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPlayerName(tt.name), tt.name)
	}
}
