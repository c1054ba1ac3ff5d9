package sim

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
)

var _ = Describe("Simulator", func() {
	var (
		s   *Simulator
		cfg dynamo.Config
	)

	BeforeEach(func() {
		grav := physics.NewGravity(dynamo.DefaultParams()).WithBackend(compute.NewCPUBackend(2))
		s = New(grav, integrators.NewSymplecticEuler())
		cfg = dynamo.DefaultConfig()
		cfg.Steps = 10
	})

	It("starts uninitialized and refuses to run", func() {
		Expect(s.Phase()).To(Equal(Uninitialized))

		_, err := s.Run(context.Background())
		Expect(err).To(MatchError(dynamo.ErrNotReady))
	})

	Context("when loaded with valid bodies", func() {
		BeforeEach(func() {
			Expect(s.Load(scenario.SolarSystem(80, scenario.DefaultSeed), cfg)).To(Succeed())
		})

		It("is ready", func() {
			Expect(s.Phase()).To(Equal(Ready))
			Expect(s.Config().Steps).To(Equal(10))
		})

		It("completes and reports every step", func() {
			result, err := s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(Completed))
			Expect(result.StepsTaken).To(Equal(10))
			Expect(result.PairEvaluations).To(Equal(10 * compute.PairCount(80)))
			Expect(result.Bodies).To(HaveLen(80))
			Expect(result.Bodies.IsValid()).To(BeTrue())
		})

		It("can be reloaded after completing", func() {
			_, err := s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Load(scenario.EarthSun(), cfg)).To(Succeed())
			Expect(s.Phase()).To(Equal(Ready))
		})

		It("aborts with a partial result when cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := s.Run(ctx)
			Expect(err).To(MatchError(context.Canceled))

			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(result).NotTo(BeNil())
			Expect(result.StepsTaken).To(BeZero())
			Expect(result.Initial).To(Equal(result.Final))
			Expect(s.Phase()).To(Equal(Aborted))
		})
	})

	Context("when the configuration is invalid", func() {
		It("stays uninitialized", func() {
			cfg.Params.Softening = 0
			err := s.Load(scenario.EarthSun(), cfg)

			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			Expect(s.Phase()).To(Equal(Uninitialized))
		})
	})
})
