package faucet

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-faucet/pkg/metrics"
	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
	"github.com/code-payments/code-faucet/pkg/solana/runtime"
)

const (
	metricsStructName = "faucet.processor"

	claimEventName = "FaucetClaim"
)

// Processor executes faucet program instructions. It holds no state between
// instructions; everything it reads and writes lives in the accounts it is
// given.
type Processor struct {
	log *logrus.Entry
}

// NewProcessor returns a runtime.Program for the faucet
func NewProcessor() runtime.Program {
	return &Processor{
		log: logrus.StandardLogger().WithField("type", "faucet/processor"),
	}
}

// Process implements runtime.Program.Process
func (p *Processor) Process(ctx context.Context, host runtime.Host, programID ed25519.PublicKey, accounts []*runtime.AccountInfo, data []byte) (err error) {
	args, err := faucet_program.UnmarshalInstructionData(data)
	if err != nil {
		p.log.WithError(err).Debug("malformed instruction data")
		return errors.Wrap(ErrMalformedInput, err.Error())
	}

	tracer := metrics.TraceMethodCall(ctx, metricsStructName, args.Type().String())
	defer tracer.End()
	defer func() {
		tracer.OnError(err)
	}()
	tracer.AddAttributes(map[string]interface{}{
		"program":  base58.Encode(programID),
		"accounts": len(accounts),
	})

	log := p.log.WithFields(logrus.Fields{
		"method":      "Process",
		"instruction": args.Type().String(),
	})

	switch typed := args.(type) {
	case *faucet_program.InitializeInstructionArgs:
		err = p.initialize(ctx, log, host, programID, accounts, typed)
	case *faucet_program.ClaimInstructionArgs:
		err = p.claim(ctx, log, host, programID, accounts)
	case *faucet_program.ReconfigureInstructionArgs:
		err = p.reconfigure(log, programID, accounts, typed)
	case *faucet_program.PauseInstructionArgs:
		err = p.pause(log, programID, accounts)
	default:
		err = errors.Wrapf(ErrMalformedInput, "unhandled instruction type %d", args.Type())
	}

	if err != nil {
		log.WithError(err).Debug("instruction rejected")
	}
	return err
}
