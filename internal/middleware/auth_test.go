package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/photomap-backend-go/internal/session"
)

type fakeAuth struct {
	sessions map[string]*session.Session
}

func (f *fakeAuth) Authenticate(token string) (*session.Session, error) {
	if token == "bad" {
		return nil, session.ErrInvalidToken
	}
	sess, ok := f.sessions[token]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return sess, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := &fakeAuth{sessions: map[string]*session.Session{"good": {ID: "s1"}}}

	r := gin.New()
	r.GET("/", SessionAuth(auth), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).ID)
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"bearer", "Bearer good", "", http.StatusOK},
		{"lowercase bearer", "bearer good", "", http.StatusOK},
		{"cookie", "", "good", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"invalid", "Bearer bad", "", http.StatusUnauthorized},
		{"expired", "Bearer gone", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusOK && w.Body.String() != "s1" {
				t.Errorf("Expected session s1, got %q", w.Body.String())
			}
		})
	}
}

func TestCurrentSessionMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CurrentSession(c) != nil {
		t.Error("Expected nil session without SessionAuth")
	}
}
