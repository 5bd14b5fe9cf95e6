package authn

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/crewjam/saml"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"tempo/internal/config"
	"tempo/internal/models"
	"tempo/internal/session"
	"tempo/internal/store"
)

const (
	trackingCookie = "tempo_saml_req"
	trackingTTL    = 5 * time.Minute

	attrGivenName = "urn:oid:2.5.4.42"
	attrSurname   = "urn:oid:2.5.4.4"
)

// SAML implements single sign-on against an external identity provider.
// Assertion cryptography is delegated to the saml library; this type owns
// the session establishment around it.
type SAML struct {
	sp     saml.ServiceProvider
	secret []byte
	st     store.Store
	mgr    *session.Manager
	lg     *zap.SugaredLogger
}

func NewSAML(cfg *config.Config, st store.Store, mgr *session.Manager, lg *zap.SugaredLogger) (*SAML, error) {
	cert, err := loadIDPCertificate(cfg.SAMLCert)
	if err != nil {
		return nil, fmt.Errorf("SAML_CERT: %w", err)
	}
	acsURL, err := url.Parse(cfg.SAMLCallbackURL)
	if err != nil {
		return nil, fmt.Errorf("SAML_CALLBACK_URL: %w", err)
	}
	metadataURL, err := url.Parse(cfg.BaseURL + "/auth/saml/metadata")
	if err != nil {
		return nil, fmt.Errorf("BASE_URL: %w", err)
	}
	sp := saml.ServiceProvider{
		EntityID:    cfg.SAMLIssuer,
		AcsURL:      *acsURL,
		MetadataURL: *metadataURL,
		IDPMetadata: idpMetadata(cfg.SAMLEntryPoint, cert),
	}
	return &SAML{
		sp:     sp,
		secret: []byte(cfg.SessionSecret),
		st:     st,
		mgr:    mgr,
		lg:     lg,
	}, nil
}

// loadIDPCertificate accepts inline PEM or a path to a PEM file.
func loadIDPCertificate(value string) (*x509.Certificate, error) {
	raw := []byte(value)
	if !strings.Contains(value, "BEGIN CERTIFICATE") {
		b, err := os.ReadFile(value)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}

func idpMetadata(entryPoint string, cert *x509.Certificate) *saml.EntityDescriptor {
	certData := base64.StdEncoding.EncodeToString(cert.Raw)
	return &saml.EntityDescriptor{
		EntityID: entryPoint,
		IDPSSODescriptors: []saml.IDPSSODescriptor{{
			SSODescriptor: saml.SSODescriptor{
				RoleDescriptor: saml.RoleDescriptor{
					ProtocolSupportEnumeration: "urn:oasis:names:tc:SAML:2.0:protocol",
					KeyDescriptors: []saml.KeyDescriptor{{
						Use: "signing",
						KeyInfo: saml.KeyInfo{
							X509Data: saml.X509Data{
								X509Certificates: []saml.X509Certificate{{Data: certData}},
							},
						},
					}},
				},
			},
			SingleSignOnServices: []saml.Endpoint{{
				Binding:  saml.HTTPRedirectBinding,
				Location: entryPoint,
			}},
		}},
	}
}

func (s *SAML) Middleware() func(http.Handler) http.Handler {
	return RequireSession(s.mgr, s.lg)
}

// LoginHandler redirects the browser to the identity provider. The issued
// AuthnRequest id and the post-login destination travel in a short-lived
// signed cookie so the callback can verify the assertion answers a request
// this server made.
func (s *SAML) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.sp.MakeAuthenticationRequest(
			s.sp.GetSSOBindingLocation(saml.HTTPRedirectBinding),
			saml.HTTPRedirectBinding, saml.HTTPPostBinding)
		if err != nil {
			s.lg.Errorw("building authentication request failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		returnTo := r.URL.Query().Get("returnTo")
		if returnTo == "" || !strings.HasPrefix(returnTo, "/") {
			returnTo = "/"
		}
		if err := s.setTrackingCookie(w, req.ID, returnTo); err != nil {
			s.lg.Errorw("signing request tracker failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		redirectURL, err := req.Redirect("", &s.sp)
		if err != nil {
			s.lg.Errorw("building redirect failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		http.Redirect(w, r, redirectURL.String(), http.StatusFound)
	}
}

// CallbackHandler is the assertion consumer endpoint. Failure details are
// logged server-side; the browser only ever sees a reason code.
func (s *SAML) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestIDs, returnTo := s.readTrackingCookie(r)
		clearCookie(w, trackingCookie)

		if err := r.ParseForm(); err != nil {
			s.redirectError(w, r, "auth_error")
			return
		}
		assertion, err := s.sp.ParseResponse(r, requestIDs)
		if err != nil {
			var ire *saml.InvalidResponseError
			if errors.As(err, &ire) {
				s.lg.Warnw("assertion rejected", "error", ire.PrivateErr)
			} else {
				s.lg.Warnw("assertion rejected", "error", err)
			}
			s.redirectError(w, r, "auth_error")
			return
		}

		email := ""
		if assertion.Subject != nil && assertion.Subject.NameID != nil {
			email = strings.TrimSpace(assertion.Subject.NameID.Value)
		}
		if email == "" {
			s.lg.Warnw("assertion carried no name identifier")
			s.redirectError(w, r, "auth_error")
			return
		}
		given, surname := assertionNames(assertion)

		user, err := s.st.UpsertUserByEmail(ctx, email, given, surname, models.RoleEmployee)
		if err != nil {
			s.lg.Errorw("user upsert after assertion failed", "email", email, "error", err)
			s.redirectError(w, r, "no_user")
			return
		}
		if !user.IsActive {
			s.lg.Warnw("deactivated user attempted login", "email", email)
			s.redirectError(w, r, "no_user")
			return
		}

		oldSID, _, err := s.mgr.Read(ctx, r)
		if err != nil && !errors.Is(err, session.ErrUnavailable) {
			s.lg.Warnw("pre-login session read failed", "error", err)
		}
		now := time.Now()
		data := &session.Data{
			UserID:          user.ID,
			Email:           user.Email,
			IsAuthenticated: true,
			AuthenticatedAt: &now,
		}
		if _, err := s.mgr.Regenerate(ctx, w, oldSID, data); err != nil {
			if errors.Is(err, session.ErrUnavailable) {
				writeJSONError(w, http.StatusServiceUnavailable, "authentication temporarily unavailable")
				return
			}
			s.lg.Errorw("session establishment failed", "error", err)
			s.redirectError(w, r, "auth_error")
			return
		}
		_ = s.st.TouchLastLogin(ctx, user.ID)

		if returnTo == "" || !strings.HasPrefix(returnTo, "/") {
			returnTo = "/"
		}
		http.Redirect(w, r, returnTo, http.StatusFound)
	}
}

func (s *SAML) MetadataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buf, err := xml.MarshalIndent(s.sp.Metadata(), "", "  ")
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/samlmetadata+xml")
		_, _ = w.Write(buf)
	}
}

func (s *SAML) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		destroySession(r.Context(), s.mgr, w, r, s.lg)
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func (s *SAML) redirectError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, "/login?error="+reason, http.StatusFound)
}

func (s *SAML) setTrackingCookie(w http.ResponseWriter, requestID, returnTo string) error {
	claims := jwt.MapClaims{
		"id":  requestID,
		"uri": returnTo,
		"exp": time.Now().Add(trackingTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     trackingCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(trackingTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *SAML) readTrackingCookie(r *http.Request) ([]string, string) {
	c, err := r.Cookie(trackingCookie)
	if err != nil || c.Value == "" {
		return nil, ""
	}
	tok, err := jwt.Parse(c.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return nil, ""
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ""
	}
	id, _ := claims["id"].(string)
	uri, _ := claims["uri"].(string)
	if id == "" {
		return nil, uri
	}
	return []string{id}, uri
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}

func assertionNames(a *saml.Assertion) (string, string) {
	var given, surname string
	for _, stmt := range a.AttributeStatements {
		for _, attr := range stmt.Attributes {
			if len(attr.Values) == 0 {
				continue
			}
			v := attr.Values[0].Value
			switch {
			case attr.Name == attrGivenName || attr.FriendlyName == "givenName":
				given = v
			case attr.Name == attrSurname || attr.FriendlyName == "sn":
				surname = v
			}
		}
	}
	return given, surname
}
