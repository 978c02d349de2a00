package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/arnold/coachly-api/internal/models"
	"google.golang.org/api/option"
)

// Social providers accepted by the sign-in endpoint
const (
	SocialFirebase = "firebase"
	SocialGoogle   = "google"
	SocialFacebook = "facebook"
)

// Verifier turns a third-party token into an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// Verifiers picks a verifier by provider name.
type Verifiers map[string]Verifier

func (v Verifiers) Verify(ctx context.Context, provider, token string) (models.Identity, error) {
	verifier, ok := v[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return models.Identity{}, models.NewError(models.CodeInvalid, "unsupported sign-in provider")
	}
	if strings.TrimSpace(token) == "" {
		return models.Identity{}, models.NewError(models.CodeInvalid, "token is required")
	}
	return verifier.Verify(ctx, token)
}

var errSocialFailed = models.NewError(models.CodeUnauthorized, "Social login failed. Try again.")

// FirebaseVerifier checks Firebase ID tokens issued after a client-side popup sign-in.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}
	return firebase.NewApp(ctx, cfg, opts...)
}

func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (models.Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return models.Identity{}, models.WrapError(models.CodeUnauthorized, errSocialFailed.Message, err)
	}
	id := models.Identity{
		UID:      tok.UID,
		Provider: tok.Firebase.SignInProvider,
	}
	id.Email, _ = tok.Claims["email"].(string)
	id.DisplayName, _ = tok.Claims["name"].(string)
	id.PhotoURL, _ = tok.Claims["picture"].(string)
	return id, nil
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// googleTokenInfo represents the response from Google's tokeninfo endpoint
type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Sub           string `json:"sub"`
}

// GoogleVerifier checks Google ID tokens against the tokeninfo endpoint.
type GoogleVerifier struct {
	ClientIDs []string
	Endpoint  string
}

func NewGoogleVerifier(clientIDs []string) *GoogleVerifier {
	return &GoogleVerifier{ClientIDs: clientIDs, Endpoint: "https://oauth2.googleapis.com/tokeninfo"}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (models.Identity, error) {
	var info googleTokenInfo
	if err := getJSON(ctx, v.Endpoint+"?id_token="+url.QueryEscape(idToken), &info); err != nil {
		return models.Identity{}, models.WrapError(models.CodeUnauthorized, errSocialFailed.Message, err)
	}

	// The audience is the iOS client id on iOS and the web client id elsewhere.
	if len(v.ClientIDs) > 0 && !contains(v.ClientIDs, info.Aud) {
		return models.Identity{}, models.NewError(models.CodeUnauthorized, "Token not intended for this app")
	}
	if info.Sub == "" || info.Email == "" {
		return models.Identity{}, models.NewError(models.CodeUnauthorized, "Email not available from Google account")
	}
	return models.Identity{
		UID:         "google:" + info.Sub,
		Email:       models.NormalizeEmail(info.Email),
		Provider:    models.ProviderGoogle,
		DisplayName: info.Name,
		PhotoURL:    info.Picture,
	}, nil
}

// FacebookVerifier checks user access tokens with the Graph API debug_token call.
type FacebookVerifier struct {
	AppID     string
	AppSecret string
	GraphURL  string
}

func NewFacebookVerifier(appID, appSecret string) *FacebookVerifier {
	return &FacebookVerifier{AppID: appID, AppSecret: appSecret, GraphURL: "https://graph.facebook.com"}
}

type facebookDebug struct {
	Data struct {
		AppID   string `json:"app_id"`
		IsValid bool   `json:"is_valid"`
		UserID  string `json:"user_id"`
	} `json:"data"`
}

type facebookMe struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (v *FacebookVerifier) Verify(ctx context.Context, token string) (models.Identity, error) {
	q := url.Values{}
	q.Set("input_token", token)
	q.Set("access_token", v.AppID+"|"+v.AppSecret)

	var debug facebookDebug
	if err := getJSON(ctx, v.GraphURL+"/debug_token?"+q.Encode(), &debug); err != nil {
		return models.Identity{}, models.WrapError(models.CodeUnauthorized, errSocialFailed.Message, err)
	}
	if !debug.Data.IsValid || debug.Data.AppID != v.AppID {
		return models.Identity{}, errSocialFailed
	}

	me := url.Values{}
	me.Set("fields", "id,name,email,picture")
	me.Set("access_token", token)
	var profile facebookMe
	if err := getJSON(ctx, v.GraphURL+"/me?"+me.Encode(), &profile); err != nil {
		return models.Identity{}, models.WrapError(models.CodeUnauthorized, errSocialFailed.Message, err)
	}
	if profile.ID == "" || profile.ID != debug.Data.UserID {
		return models.Identity{}, errSocialFailed
	}
	return models.Identity{
		UID:         "facebook:" + profile.ID,
		Email:       models.NormalizeEmail(profile.Email),
		Provider:    models.ProviderFacebook,
		DisplayName: profile.Name,
		PhotoURL:    profile.Picture.Data.URL,
	}, nil
}

func getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode token info: %w", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
