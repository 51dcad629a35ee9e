package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"colophon/internal/client"
	"colophon/internal/config"
)

type commandContext struct {
	configFlag  *string
	addressFlag *string
	tokenFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, addressFlag, tokenFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		addressFlag: addressFlag,
		tokenFlag:   tokenFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withClient(fn func(*client.Client) error) error {
	cli, err := c.dialClient()
	if err != nil {
		return err
	}
	return fn(cli)
}

func (c *commandContext) dialClient() (*client.Client, error) {
	address, token := c.endpoint()
	cli, err := client.New(address, token)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	if cli == nil {
		return nil, errors.New("no daemon address configured; set paths.api_bind or pass --address")
	}
	return cli, nil
}

func (c *commandContext) endpoint() (address, token string) {
	if c.addressFlag != nil {
		address = strings.TrimSpace(*c.addressFlag)
	}
	if c.tokenFlag != nil {
		token = strings.TrimSpace(*c.tokenFlag)
	}
	cfg, err := c.ensureConfig()
	if err == nil && cfg != nil {
		if address == "" {
			address = cfg.Paths.APIBind
		}
		if token == "" {
			token = cfg.Paths.APIToken
		}
	}
	return address, token
}

func wrapClientError(err error) error {
	if errors.Is(err, client.ErrDaemonUnavailable) {
		return fmt.Errorf("%w; start the daemon with `colophond`", err)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
