package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/replacement"
)

var _ = Describe("Config", func() {
	setEnv := func(name, value string) {
		GinkgoT().Setenv(EnvPrefix+name, value)
	}

	BeforeEach(func() {
		wd, err := os.Getwd()
		Expect(err).ToNot(HaveOccurred())
		Expect(os.Chdir(GinkgoT().TempDir())).To(Succeed())

		DeferCleanup(func() {
			Expect(os.Chdir(wd)).To(Succeed())
		})
	})

	It("should have valid defaults", func() {
		c := DefaultConfig()

		Expect(c.Validate()).To(Succeed())
		Expect(c.Policies).To(Equal(replacement.Names()))
		Expect(c.CapacityFor("fifo")).To(Equal(20))
		Expect(c.CapacityFor("esc")).To(Equal(200))
	})

	It("should read environment variables", func() {
		setEnv("TRACE", "refs.txt")
		setEnv("POLICIES", "lru, clock,,")
		setEnv("CAPACITY", "3")
		setEnv("ENHANCED_CAPACITY", "5")
		setEnv("RECORD", "true")
		setEnv("RECORD_EVENTS", "1")
		setEnv("MONITOR_PORT", "32776")
		setEnv("LOG_LEVEL", "debug")
		setEnv("LOG_EVENTS", "true")

		c, err := LoadFromEnv()

		Expect(err).ToNot(HaveOccurred())
		Expect(c.TracePath).To(Equal("refs.txt"))
		Expect(c.Policies).To(Equal([]string{"lru", "clock"}))
		Expect(c.CapacityFor("lru")).To(Equal(3))
		Expect(c.CapacityFor("enhanced-second-chance")).To(Equal(5))
		Expect(c.Record).To(BeTrue())
		Expect(c.RecordEvents).To(BeTrue())
		Expect(c.MonitorPort).To(Equal(32776))
		Expect(c.LogLevel).To(Equal("debug"))
		Expect(c.LogEvents).To(BeTrue())
		Expect(c.Validate()).To(Succeed())
	})

	It("should report malformed numbers and booleans", func() {
		setEnv("CAPACITY", "many")
		setEnv("MONITOR", "sometimes")

		_, err := LoadFromEnv()

		Expect(err).To(MatchError(ContainSubstring("PAGESIM_CAPACITY")))
		Expect(err).To(MatchError(ContainSubstring("PAGESIM_MONITOR")))
	})

	It("should load a .env file without overriding the environment", func() {
		file := filepath.Join(GinkgoT().TempDir(), "run.env")
		Expect(os.WriteFile(file, []byte(
			"PAGESIM_TRACE=from-file.txt\nPAGESIM_CAPACITY=7\n"), 0o644)).
			To(Succeed())
		setEnv("CAPACITY", "4")
		GinkgoT().Setenv("PAGESIM_TRACE", "")
		os.Unsetenv("PAGESIM_TRACE")

		c, err := LoadFromEnv(file)

		Expect(err).ToNot(HaveOccurred())
		Expect(c.TracePath).To(Equal("from-file.txt"))
		Expect(c.Capacity).To(Equal(4))
	})

	It("should pick up .env in the working directory", func() {
		GinkgoT().Setenv("PAGESIM_LOG_LEVEL", "")
		os.Unsetenv("PAGESIM_LOG_LEVEL")
		Expect(os.WriteFile(DefaultEnvFile,
			[]byte("PAGESIM_LOG_LEVEL=warn\n"), 0o644)).To(Succeed())

		c, err := LoadFromEnv()

		Expect(err).ToNot(HaveOccurred())
		Expect(c.LogLevel).To(Equal("warn"))
	})

	It("should fail on a missing env file", func() {
		_, err := LoadFromEnv("does-not-exist.env")

		Expect(err).To(HaveOccurred())
	})

	DescribeTable("should reject invalid settings",
		func(mutate func(c *Config)) {
			c := DefaultConfig()
			mutate(c)

			Expect(c.Validate()).ToNot(Succeed())
		},
		Entry("no policy", func(c *Config) { c.Policies = nil }),
		Entry("unknown policy", func(c *Config) { c.Policies = []string{"opt"} }),
		Entry("negative capacity", func(c *Config) { c.Capacity = -1 }),
		Entry("zero max references", func(c *Config) { c.MaxReferences = 0 }),
		Entry("unknown log level", func(c *Config) { c.LogLevel = "loud" }),
		Entry("events without recording", func(c *Config) { c.RecordEvents = true }),
		Entry("reserved port", func(c *Config) { c.MonitorPort = 80 }),
		Entry("port just below the range", func(c *Config) { c.MonitorPort = 999 }),
		Entry("port above the range", func(c *Config) { c.MonitorPort = 65536 }),
		Entry("browser without monitor", func(c *Config) { c.OpenBrowser = true }),
	)

	It("should accept the lowest monitor port", func() {
		c := DefaultConfig()
		c.MonitorPort = monitoring.MinPortNumber

		Expect(c.Validate()).To(Succeed())
	})

	It("should clone deeply", func() {
		c := DefaultConfig()
		clone := c.Clone()

		clone.Policies[0] = "changed"

		Expect(c.Policies[0]).To(Equal(replacement.NameFIFO))
	})
})
