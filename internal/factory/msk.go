package factory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/aws/aws-msk-iam-sasl-signer-go/signer"
)

const mskTokenTimeout = 10 * time.Second

// MSKAccessTokenProvider signs sarama OAUTHBEARER tokens for AWS MSK IAM authentication.
type MSKAccessTokenProvider struct {
	region string
}

func (m *MSKAccessTokenProvider) Token() (*sarama.AccessToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mskTokenTimeout)
	defer cancel()

	token, expiryMs, err := signer.GenerateAuthToken(ctx, m.region)
	if err != nil {
		return nil, fmt.Errorf("failed to generate msk iam token: %w", err)
	}

	ret := &sarama.AccessToken{
		Token: token,
		Extensions: map[string]string{
			"expiry": strconv.FormatInt(expiryMs, 10),
		},
	}

	return ret, nil
}
