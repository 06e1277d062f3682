package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/player/chat"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pfx"
	"github.com/oriumgames/pfx/df"
	"github.com/oriumgames/pfx/shape"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	chat.Global.Subscribe(chat.StdoutSubscriber{})

	if err := run(log); err != nil {
		log.Error("pfxdemo: exiting", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := loadConfig("pfx.yaml")
	if err != nil {
		return err
	}

	conf, err := server.DefaultConfig().Config(log)
	if err != nil {
		return err
	}
	srv := conf.New()
	srv.CloseOnProgramEnd()

	spawn := srv.World().Spawn().Vec3Centre()
	cfg.Origin = [3]float64(spawn)

	b, err := cfg.Builder(pfx.DefaultRenderers())
	if err != nil {
		return err
	}
	sys, err := b.Sink(df.NewSink(srv.World(), df.WithLogger(log))).
		Logger(log).
		Build()
	if err != nil {
		return err
	}
	defer sys.Close()

	sched := cfg.Scheduler(log)
	if err := sched.Add(sys); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv.Listen()
	dust, err := pfx.NewParticle(pfx.ParticleDust)
	if err != nil {
		return err
	}
	for p := range srv.Accept() {
		if err := welcome(sys); err != nil {
			log.Warn("pfxdemo: welcome effect failed", "player", p.Name(), "err", err)
		}
		trail, err := df.NewTrail(sys, dust, 2_000)
		if err != nil {
			return err
		}
		p.Handle(trail)
	}
	return nil
}

// loadConfig reads the YAML config at path, falling back to the defaults
// when the file does not exist.
func loadConfig(path string) (*pfx.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		c := pfx.DefaultConfig()
		return &c, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	return pfx.LoadConfig(f)
}

// welcome spawns a flame fountain rising from spawn and a sphere of notes
// around it. Both disappear after ten seconds.
func welcome(sys *pfx.System) error {
	flame, err := pfx.NewParticle(pfx.ParticleFlame)
	if err != nil {
		return err
	}
	if flame, err = flame.WithAmount(3); err != nil {
		return err
	}
	if flame, err = flame.WithSpread(mgl64.Vec3{0.2, 0, 0.2}); err != nil {
		return err
	}
	phys, err := pfx.NewPhysics(mgl64.Vec3{}, mgl64.Vec3{0, 1.5, 0})
	if err != nil {
		return err
	}
	particles, err := pfx.NewParticles(true, flame)
	if err != nil {
		return err
	}
	ttl, err := pfx.NewLifetime(10_000)
	if err != nil {
		return err
	}
	if _, err := sys.CreateObject(phys, particles, ttl); err != nil {
		return fmt.Errorf("create fountain: %w", err)
	}

	note, err := pfx.NewParticle(pfx.ParticleNote)
	if err != nil {
		return err
	}
	sphere, err := shape.NewSphere(mgl64.Vec3{}, 2)
	if err != nil {
		return err
	}
	outline, err := pfx.NewOutline(sphere, 1, note)
	if err != nil {
		return err
	}
	still, err := pfx.NewPhysics(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{})
	if err != nil {
		return err
	}
	ttl, err = pfx.NewLifetime(10_000)
	if err != nil {
		return err
	}
	if _, err := sys.CreateObject(still, outline, ttl); err != nil {
		return fmt.Errorf("create sphere: %w", err)
	}

	// The fountain reaches 4.5 blocks after three seconds.
	boom, err := pfx.NewParticle(pfx.ParticleHugeExplosion)
	if err != nil {
		return err
	}
	_, err = sys.Schedule(3_000, func(f *pfx.Frame) {
		_ = f.Spawn(f.System().Origin().Add(mgl64.Vec3{0, 4.5, 0}), boom, pfx.AudienceAll())
	})
	return err
}
