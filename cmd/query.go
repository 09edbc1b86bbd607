// Copyright 2025 The steamnetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/steamnetd/steamnetd/a2s"
	"github.com/steamnetd/steamnetd/internal/jsonutil"
)

// queryTimeout bounds a single CLI invocation. One Transport.Recv gives
// up on its own after at most 10.5s (3.0+2.5+2.0+1.5+1.0+0.5), so a
// command that waits on one reply (info, ping) hits the retry schedule's
// Timeout first; players and rules wait on three replies (info,
// challenge, answer) and can reach this deadline first.
const queryTimeout = 30 * time.Second

// withSession opens a Session for endpoint, runs fn, and always closes
// it, regardless of fn's outcome.
func withSession(endpoint string, fn func(ctx context.Context, s *a2s.Session) error) error {
	sess, err := a2s.NewSession(endpoint)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return fn(ctx, sess)
}

func printJSON(v any) error {
	b, err := jsonutil.MarshalIndent(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func die(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
