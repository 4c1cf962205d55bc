// Copyright 2026 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/Shard-Labs/remix-project/session"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func runTrace(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return errors.New("usage: txdebug trace <txhash>")
	}
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	b, err := newBackend(ctx.Context, cfg, logEditor{}, resolver.LogNotifier{})
	if err != nil {
		return err
	}
	defer b.Close()

	return traceTransaction(ctx.Context, b.ctrl, ctx.Args().First(), cfg.PreloadLimit, ctx.App.Writer)
}

// traceTransaction debugs hash on ctrl and writes one row per step.
func traceTransaction(ctx context.Context, ctrl *session.Controller, hash string, preload int, out io.Writer) error {
	if hash == "" {
		return session.ErrInvalidHash
	}
	ready := make(chan *session.Session, 1)
	failed := make(chan error, 1)
	ctrl.OnSessionReady(func(s *session.Session) { ready <- s })
	ctrl.OnDebugFailed(func(req session.DebugRequest, err error) { failed <- err })

	if _, ok := ctrl.Debug(hash); !ok {
		return errDetached
	}
	var sess *session.Session
	select {
	case sess = <-ready:
	case err := <-failed:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}

	engine := sess.Engine()
	if preload > 0 {
		n, err := engine.Preload(ctx, preload)
		if err != nil {
			return err
		}
		log.Debug("Preloaded contract sources", "contracts", n)
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Step", "PC", "Op", "Depth", "Address", "Source"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for i := 0; i < engine.Len(); i++ {
		loc, err := sess.JumpTo(ctx, i)
		if err != nil {
			return err
		}
		step, err := engine.Step(i)
		if err != nil {
			return err
		}
		address, err := engine.Address(i)
		if err != nil {
			return err
		}
		source := "-"
		if loc != nil {
			// Editors count lines and columns from one.
			source = fmt.Sprintf("%s:%d:%d", loc.Path, loc.Range.Start.Line+1, loc.Range.Start.Column+1)
		}
		op := step.Op
		if step.Error != "" {
			op = color.RedString("%s (%s)", step.Op, step.Error)
		}
		table.Append([]string{
			strconv.Itoa(i),
			strconv.FormatUint(step.Pc, 10),
			op,
			strconv.Itoa(step.Depth),
			address,
			source,
		})
	}
	table.Render()
	return nil
}
