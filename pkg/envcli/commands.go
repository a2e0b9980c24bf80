package envcli

import (
	"context"
	"strings"

	"github.com/envault/envault/pkg/export"
)

func withEnv(args []string, env string) []string {
	if env != "" {
		args = append(args, "--env", env)
	}
	return args
}

// Init links the working directory to a project
func (r *Runner) Init(ctx context.Context, project string) (string, error) {
	args := []string{"init"}
	if project != "" {
		args = append(args, "--project", project)
	}
	return r.Run(ctx, args...)
}

func (r *Runner) Set(ctx context.Context, key, value, env string) error {
	_, err := r.Run(ctx, withEnv([]string{"set", key, value}, env)...)
	return err
}

// Get returns the value of key without the trailing newline
func (r *Runner) Get(ctx context.Context, key, env string) (string, error) {
	out, err := r.Run(ctx, withEnv([]string{"get", key}, env)...)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\r\n"), nil
}

// List returns the secrets of env, or of the linked default environment
func (r *Runner) List(ctx context.Context, env string) ([]export.Entry, error) {
	out, err := r.Run(ctx, withEnv([]string{"list"}, env)...)
	if err != nil {
		return nil, err
	}
	return ParseList(out), nil
}

func (r *Runner) Unset(ctx context.Context, key, env string) error {
	_, err := r.Run(ctx, withEnv([]string{"unset", key}, env)...)
	return err
}

// Push uploads the local .env file
func (r *Runner) Push(ctx context.Context, env string) (string, error) {
	return r.Run(ctx, withEnv([]string{"sync", "--push"}, env)...)
}

// Pull writes the remote secrets to the local .env file
func (r *Runner) Pull(ctx context.Context, env string) (string, error) {
	return r.Run(ctx, withEnv([]string{"sync", "--pull"}, env)...)
}

func (r *Runner) Export(ctx context.Context, format export.Format, env string) (string, error) {
	return r.Run(ctx, withEnv([]string{"export", "--format", string(format)}, env)...)
}

func (r *Runner) Login(ctx context.Context, token string) error {
	_, err := r.Run(ctx, "login", "--token", token)
	return err
}

func (r *Runner) Logout(ctx context.Context) error {
	_, err := r.Run(ctx, "logout")
	return err
}

func (r *Runner) Audit(ctx context.Context, env string) (string, error) {
	return r.Run(ctx, withEnv([]string{"audit"}, env)...)
}

// History returns the change history of key
func (r *Runner) History(ctx context.Context, key, env string) (string, error) {
	return r.Run(ctx, withEnv([]string{"history", key}, env)...)
}
