//go:build gym

package main

import (
	"github.com/samuelfneumann/goppo/config"
	env "github.com/samuelfneumann/goppo/environment"
	"github.com/samuelfneumann/goppo/environment/gym"
)

func init() {
	gymBackend = func(c config.Config) (env.Environment, func() error, error) {
		g, err := gym.New(gym.PendulumV1, c.Gamma, c.Seed)
		if err != nil {
			return nil, func() error { return nil }, err
		}
		return g, g.Close, nil
	}
}
