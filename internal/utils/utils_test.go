package utils

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderName(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*3600)

	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want string
	}{
		{
			name: "pads day month and clock",
			in:   time.Date(2024, time.January, 5, 9, 5, 3, 0, bangkok),
			loc:  bangkok,
			want: "05/01/2567 09:05:03",
		},
		{
			name: "converts into target zone first",
			in:   time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC),
			loc:  bangkok,
			want: "01/01/2569 03:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FolderName(tt.in, tt.loc))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 MiB", FormatBytes(1536*1024))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2 day(s)", FormatDuration(49*time.Hour))
	assert.Equal(t, "3 hour(s)", FormatDuration(3*time.Hour+10*time.Minute))
	assert.Equal(t, "30 second(s)", FormatDuration(30*time.Second))
}

func TestObscureReveal(t *testing.T) {
	obscured, err := Obscure("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obscured, ObscuredPrefix))

	plain, err := Reveal(obscured)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", plain)

	plain, err = Reveal("  not-obscured ")
	require.NoError(t, err)
	assert.Equal(t, "not-obscured", plain)

	_, err = Reveal(ObscuredPrefix)
	assert.Error(t, err)
}

func TestDecodeJSONKey(t *testing.T) {
	raw := `{"type":"service_account"}`
	assert.Equal(t, raw, DecodeJSONKey(raw))
	assert.Equal(t, raw, DecodeJSONKey(base64.StdEncoding.EncodeToString([]byte(raw))))
	assert.Equal(t, "", DecodeJSONKey("  "))
}

func TestAskConfirmation(t *testing.T) {
	var out strings.Builder
	assert.True(t, AskConfirmation(strings.NewReader("Yes\n"), &out, "Overwrite?"))
	assert.False(t, AskConfirmation(strings.NewReader("\n"), &out, "Overwrite?"))
	assert.Contains(t, out.String(), "Overwrite?: ")
}
