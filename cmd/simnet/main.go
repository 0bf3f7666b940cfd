// Command simnet boots a small in-process Klingnet simulation.
//
// Usage: go run ./cmd/simnet/
//
// It generates three node identities, connects them into a line topology
// (A-B-C), has A mine a chain of blocks while B and C gossip-follow, has A
// spend a coin to C, and finally has B (cut off from A, still linked to C)
// mine ahead so that reconnecting runs A's reorg engine against B's
// longer chain — all inside a single process, since the "network" here is just
// recursive Go calls between *node.Node values.
package main

import (
	"fmt"
	"os"

	klog "github.com/Klingon-tech/klingnet-chain/internal/log"
	"github.com/Klingon-tech/klingnet-chain/internal/node"
	"github.com/Klingon-tech/klingnet-chain/internal/wallet"
)

const blocksToMine = 5

func main() {
	if err := klog.Init("info", false, ""); err != nil {
		fmt.Fprintln(os.Stderr, "init logging:", err)
		os.Exit(1)
	}
	logger := klog.WithComponent("simnet")

	logger.Info().Msg("=== Klingnet in-process simulation ===")

	a, err := newNode("A")
	if err != nil {
		logger.Fatal().Err(err).Msg("build node A")
	}
	b, err := newNode("B")
	if err != nil {
		logger.Fatal().Err(err).Msg("build node B")
	}
	c, err := newNode("C")
	if err != nil {
		logger.Fatal().Err(err).Msg("build node C")
	}

	// ── Phase 1: topology ────────────────────────────────────────────
	if err := a.Connect(b); err != nil {
		logger.Fatal().Err(err).Msg("connect A-B")
	}
	if err := b.Connect(c); err != nil {
		logger.Fatal().Err(err).Msg("connect B-C")
	}
	logger.Info().Msg("topology: A - B - C")

	// ── Phase 2: A mines, B and C gossip-follow ─────────────────────
	for i := 0; i < blocksToMine; i++ {
		tip, err := a.MineBlock()
		if err != nil {
			logger.Fatal().Err(err).Msg("mine block")
		}
		logger.Info().
			Int("i", i+1).
			Str("tip", short(tip.String())).
			Msg("A mined a block")
	}

	if a.TipHash() != b.TipHash() || b.TipHash() != c.TipHash() {
		logger.Error().Msg("FAILURE: tips diverged after straight-line mining")
		os.Exit(1)
	}
	logger.Info().
		Int("balance_a", a.Balance()).
		Int("balance_b", b.Balance()).
		Int("balance_c", c.Balance()).
		Msg("chains converged")

	// ── Phase 3: A spends a coin to C ───────────────────────────────
	spend, err := a.CreateTransaction(c.Address())
	if err != nil {
		logger.Fatal().Err(err).Msg("create spend")
	}
	if spend == nil {
		logger.Fatal().Msg("A had no spendable output")
	}
	logger.Info().Str("spend", short(spend.Hash().String())).Msg("A broadcast a spend to C")

	if _, err := a.MineBlock(); err != nil {
		logger.Fatal().Err(err).Msg("mine spend")
	}
	logger.Info().
		Int("balance_a", a.Balance()).
		Int("balance_c", c.Balance()).
		Msg("spend confirmed")

	// ── Phase 4: B mines ahead while cut off from A (C still follows B),
	// then reconnect so A's reorg engine adopts B's longer chain ──
	b.Disconnect(a)
	if _, err := b.MineBlock(); err != nil {
		logger.Fatal().Err(err).Msg("mine B's competing block")
	}
	if _, err := b.MineBlock(); err != nil {
		logger.Fatal().Err(err).Msg("mine B's second competing block")
	}
	logger.Info().
		Str("a_tip", short(a.TipHash().String())).
		Str("b_tip", short(b.TipHash().String())).
		Msg("B mined two blocks while disconnected from A")

	// B re-announces itself so A learns of B's now-longer chain; had A
	// called Connect instead, only A's (shorter) tip would be announced
	// and B would correctly ignore it.
	if err := b.Connect(a); err != nil {
		logger.Fatal().Err(err).Msg("reconnect A-B")
	}

	if a.TipHash() != b.TipHash() {
		logger.Error().Msg("FAILURE: A and B did not reconverge after reconnect")
		os.Exit(1)
	}
	logger.Info().Str("tip", short(a.TipHash().String())).Msg("SUCCESS: reorg reconverged A and B")
}

func newNode(label string) (*node.Node, error) {
	id, err := wallet.GenerateIdentity()
	if err != nil {
		return nil, fmt.Errorf("generate identity for %s: %w", label, err)
	}
	return node.New(id), nil
}

func short(s string) string {
	if len(s) <= 16 {
		return s
	}
	return s[:16] + "..."
}
