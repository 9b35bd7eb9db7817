// 외부 Kakao API와 통신하는 클라이언트 정의
//
// Kakao는 OIDC ID 토큰이 아니라 OAuth 액세스 토큰을 받으므로
// /v2/user/me 호출로 토큰을 검증하고 프로필을 가져온다.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/gogo-study/backend/internal/model"
)

type KakaoClient struct {
	userInfoURL string
	timeout     time.Duration
}

type kakaoUserResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
}

func NewKakaoClient(userInfoURL string) *KakaoClient {
	return &KakaoClient{
		userInfoURL: userInfoURL,
		timeout:     10 * time.Second,
	}
}

// Verify calls the Kakao user-info endpoint with the presented access token.
// A non-200 response means the token is invalid or expired.
func (c *KakaoClient) Verify(ctx context.Context, accessToken string) (*model.ExternalIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create kakao request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kakao request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao API responded with %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read kakao response: %w", err)
	}

	var user kakaoUserResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode kakao response: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("kakao user id missing")
	}

	name := user.KakaoAccount.Profile.Nickname
	if name == "" {
		name = user.Properties.Nickname
	}

	return &model.ExternalIdentity{
		Provider:   model.ProviderKakao,
		ProviderID: strconv.FormatInt(user.ID, 10),
		Email:      user.KakaoAccount.Email,
		Name:       name,
	}, nil
}
