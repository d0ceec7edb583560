package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multipartMessage = "From: \"Acme Deals\" <deals@acme.com>\r\n" +
	"To: you@example.com\r\n" +
	"Subject: =?UTF-8?Q?Spring_Sale_=E2=80=93_50%_off?=\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Hello =E2=80=94 friend\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"PGh0bWw+PGJvZHk+PGEgaHJlZj0iaHR0cHM6Ly9hY21lLmNvbSI+U0hPUDwvYT48L2JvZHk+PC9odG1sPg==\r\n" +
	"--b1--\r\n"

func TestParse_Multipart(t *testing.T) {
	m, err := Parse([]byte(multipartMessage))
	require.NoError(t, err)

	assert.Equal(t, "Spring Sale – 50% off", m.Subject)
	assert.Equal(t, "Acme Deals", m.FromName)
	assert.Equal(t, "deals@acme.com", m.FromEmail)
	assert.Equal(t, "Hello — friend", m.Plain)
	assert.Equal(t, `<html><body><a href="https://acme.com">SHOP</a></body></html>`, m.HTML)
	assert.Equal(t, "you@example.com", m.Headers["To"])
}

func TestParse_SinglePartHTML(t *testing.T) {
	raw := "From: deals@acme.com\nSubject: Hi\nContent-Type: text/html\n\n<p>Body</p>\n"

	m, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "", m.FromName)
	assert.Equal(t, "deals@acme.com", m.FromEmail)
	assert.Equal(t, "<p>Body</p>\n", m.HTML)
	assert.Empty(t, m.Plain)
}

func TestParse_DefaultsToPlainText(t *testing.T) {
	m, err := Parse([]byte("Subject: Hi\nFrom: a@b.com\n\nplain body"))
	require.NoError(t, err)
	assert.Equal(t, "plain body", m.Plain)
}

func TestParse_SkipsAttachments(t *testing.T) {
	raw := "Subject: Hi\nContent-Type: multipart/mixed; boundary=x\n\n" +
		"--x\nContent-Type: text/plain\nContent-Disposition: attachment; filename=a.txt\n\nattached\n" +
		"--x\nContent-Type: text/plain\n\nreal body\n--x--\n"

	m, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "real body", m.Plain)
}

func TestParse_Latin1Part(t *testing.T) {
	raw := "Subject: Hallo\r\nFrom: a@acme.de\r\nContent-Type: text/plain; charset=iso-8859-1\r\n" +
		"Content-Transfer-Encoding: 8bit\r\n\r\nGr\xfc\xdfe aus M\xfcnchen\r\n"

	m, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Grüße aus München\r\n", m.Plain)
}

func TestParse_EightBitHeader(t *testing.T) {
	m, err := Parse([]byte("Subject: Gr\xfc\xdfe\r\nFrom: a@acme.de\r\n\r\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "Grüße", m.Subject)
}

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		in        string
		wantName  string
		wantEmail string
	}{
		{`"Acme" <a@acme.com>`, "Acme", "a@acme.com"},
		{"Acme Team <a@acme.com>", "Acme Team", "a@acme.com"},
		{"a@acme.com", "", "a@acme.com"},
		{"", "", ""},
	}

	for _, tt := range tests {
		name, email := SplitAddress(tt.in)
		assert.Equal(t, tt.wantName, name, tt.in)
		assert.Equal(t, tt.wantEmail, email, tt.in)
	}
}
