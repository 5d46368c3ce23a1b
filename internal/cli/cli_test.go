package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sibexico/PageTrace/paging"
)

func execute(args ...string) (string, string, error) {
	cmd := NewRootCommand()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

var _ = Describe("pagetrace", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Context("run", func() {
		It("should print the trace table and totals", func() {
			out, logs, err := execute("run", "--policy", "fifo", "--frames", "3",
				"--refs", "1,2,3,4,1,2,5", "--width", "200")

			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("FIFO, 3 frames, 7 references"))
			Expect(out).To(ContainSubstring("Hits: 0  Faults: 3  Replacements: 4  Hit ratio: 0.00%"))
			Expect(out).To(ContainSubstring("Pointer"))
			Expect(logs).To(ContainSubstring("Simulation finished"))
		})

		It("should show clock state rows", func() {
			out, _, err := execute("run", "--policy", "clock", "--frames", "3",
				"--refs", "1 2 3 1 4 5")

			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("Hand"))
			Expect(out).To(ContainSubstring("Bits"))
		})

		It("should reject frame counts outside the allowed range", func() {
			_, _, err := execute("run", "--frames", "2", "--refs", "1,2,3")
			Expect(paging.IsErrorCode(err, paging.ErrCodeInvalidConfig)).To(BeTrue())

			_, _, err = execute("run", "--frames", "11", "--refs", "1,2,3")
			Expect(err).To(HaveOccurred())
		})

		It("should reject malformed references", func() {
			_, _, err := execute("run", "--refs", "1,two,3")
			Expect(err).To(MatchError(paging.ErrInvalidReference))
		})

		It("should reject unknown policies", func() {
			_, _, err := execute("run", "--policy", "random", "--refs", "1")
			Expect(err).To(HaveOccurred())
		})

		It("should write an encoded trace that show can replay", func() {
			path := filepath.Join(dir, "fifo.trace")
			out, _, err := execute("run", "--policy", "fifo", "--frames", "3",
				"--refs", "1,2,3,4,1,2,5", "--out", path, "--compression", "lz4")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("Trace written to " + path))

			out, _, err = execute("show", path, "--step", "3")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("Step 3 of 6: reference 4, REPLACEMENT"))
			Expect(out).To(ContainSubstring("Frames: [4 2 3]"))
			Expect(out).To(ContainSubstring("Evicted page 1 from frame 0"))
			Expect(out).To(ContainSubstring("State: pointer=1"))
			Expect(out).To(ContainSubstring("Running: 0 hits, 4 misses"))

			out, _, err = execute("show", path)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("FIFO, 3 frames, 7 references"))
		})

		It("should pick the smallest encoding with --best", func() {
			refs := strings.Repeat("1,2,3,4,1,2,5,", 40) + "1"
			path := filepath.Join(dir, "best.trace")
			_, _, err := execute("run", "--policy", "lru", "--frames", "4",
				"--refs", refs, "--out", path, "--best")
			Expect(err).ToNot(HaveOccurred())

			data, err := os.ReadFile(path)
			Expect(err).ToNot(HaveOccurred())
			trace, err := paging.DecodeTrace(data)
			Expect(err).ToNot(HaveOccurred())
			Expect(trace.Len()).To(Equal(281))
			Expect(paging.CompressionType(data[3])).ToNot(Equal(paging.CompressionNone))
		})

		It("should write steps as CSV", func() {
			base := filepath.Join(dir, "steps")
			out, _, err := execute("run", "--policy", "lru", "--frames", "3",
				"--refs", "1,2,1,3,4", "--csv", base)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("Steps written to " + base + ".csv"))

			data, err := os.ReadFile(base + ".csv")
			Expect(err).ToNot(HaveOccurred())
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(6))
			Expect(lines[0]).To(Equal("Index, Page, Action, Slot, Evicted, Frames, Aux"))
			Expect(lines[3]).To(Equal("2, 1, HIT, 0, -1, 1 2 -1, ages=0 1 0"))
			Expect(lines[5]).To(Equal("4, 4, REPLACEMENT, 1, 2, 1 4 3, ages=2 0 1"))
		})

		It("should not double the .csv extension", func() {
			path := filepath.Join(dir, "steps.csv")
			out, _, err := execute("run", "--refs", "1,2,3", "--csv", path)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("Steps written to " + path + "\n"))
			Expect(path).To(BeAnExistingFile())
			Expect(path + ".csv").ToNot(BeAnExistingFile())
		})

		It("should refuse to overwrite an existing CSV file", func() {
			base := filepath.Join(dir, "taken")
			Expect(os.WriteFile(base+".csv", nil, 0644)).To(Succeed())

			_, _, err := execute("run", "--refs", "1,2", "--csv", base)
			Expect(err).To(MatchError(ContainSubstring("already exists")))
		})
	})

	Context("show", func() {
		It("should reject a trace whose state does not match its policy", func() {
			trace, err := paging.Generate(paging.LRU, []int{1, 2, 3, 1}, 3)
			Expect(err).ToNot(HaveOccurred())
			for i := range trace.Steps {
				trace.Steps[i].Aux = paging.FIFOState{}
			}
			data, err := paging.EncodeTrace(trace, paging.CompressionNone)
			Expect(err).ToNot(HaveOccurred())

			path := filepath.Join(dir, "mixed.trace")
			Expect(os.WriteFile(path, data, 0644)).To(Succeed())

			_, _, err = execute("show", path)
			Expect(err).To(MatchError(paging.ErrTraceCorrupted))
		})

		It("should reject a step outside the trace", func() {
			path := filepath.Join(dir, "short.trace")
			_, _, err := execute("run", "--refs", "1,2", "--out", path)
			Expect(err).ToNot(HaveOccurred())

			_, _, err = execute("show", path, "--step", "2")
			Expect(err).To(MatchError(paging.ErrInvalidStep))
		})
	})

	Context("compare", func() {
		It("should list every policy", func() {
			out, _, err := execute("compare", "--frames", "3",
				"--refs", "7,0,1,2,0,3,0,4,2,3,0,3,2")

			Expect(err).ToNot(HaveOccurred())
			for _, p := range paging.Policies {
				Expect(out).To(ContainSubstring(string(p)))
			}
			Expect(out).To(ContainSubstring("3 frames, 13 references"))
		})

		It("should print the detailed trace from the memo", func() {
			out, logs, err := execute("--log-level", "debug", "compare", "--frames", "4",
				"--refs", "7,0,1,2,0,3,0,4,2,3,0,3,2", "--detail", "opt")

			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("OPTIMAL, 4 frames, 13 references"))
			Expect(logs).To(ContainSubstring("memo hit"))
		})
	})

	Context("configuration", func() {
		It("should read settings from a config file", func() {
			path := filepath.Join(dir, "config.json")
			config := paging.DefaultConfig()
			config.Policy = "optimal"
			config.Frames = 5
			Expect(config.SaveToFile(path)).To(Succeed())

			out, _, err := execute("--config", path, "run", "--refs", "1,2,3")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("OPTIMAL, 5 frames"))
		})

		It("should let flags override the environment", func() {
			GinkgoT().Setenv("PAGETRACE_POLICY", "clock")
			GinkgoT().Setenv("PAGETRACE_FRAMES", "6")

			out, _, err := execute("run", "--refs", "1,2,3")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("CLOCK, 6 frames"))

			out, _, err = execute("run", "--policy", "lru", "--refs", "1,2,3")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("LRU, 6 frames"))
		})

		It("should load a .env file from the working directory", func() {
			wd, err := os.Getwd()
			Expect(err).ToNot(HaveOccurred())
			Expect(os.Chdir(dir)).To(Succeed())
			DeferCleanup(os.Chdir, wd)
			DeferCleanup(os.Unsetenv, "PAGETRACE_FRAMES")

			Expect(os.WriteFile(".env", []byte("PAGETRACE_FRAMES=8\n"), 0644)).To(Succeed())

			out, _, err := execute("run", "--refs", "1,2,3")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("FIFO, 8 frames"))
		})
	})
})

var _ = Describe("RenderTable", func() {
	It("should wrap long traces into blocks", func() {
		refs := make([]int, 30)
		for i := range refs {
			refs[i] = i % 7
		}
		trace, err := paging.Generate(paging.FIFO, refs, 3)
		Expect(err).ToNot(HaveOccurred())

		var buf bytes.Buffer
		RenderTable(&buf, trace, 40)

		blocks := strings.Count(buf.String(), "Step ")
		Expect(blocks).To(BeNumerically(">", 1))
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.HasPrefix(line, "Frame") {
				Expect(len(line)).To(BeNumerically("<=", 40))
			}
		}
	})

	It("should mark policy state it cannot read", func() {
		trace, err := paging.Generate(paging.Clock, []int{1, 2}, 3)
		Expect(err).ToNot(HaveOccurred())
		trace.Steps[1].Aux = paging.LRUState{}

		var buf bytes.Buffer
		Expect(func() { RenderTable(&buf, trace, 80) }).ToNot(Panic())
		Expect(buf.String()).To(ContainSubstring("Hand" + strings.Repeat(" ", 8) + "0   ?"))
	})

	It("should print only the header for an empty trace", func() {
		trace, err := paging.Generate(paging.LRU, nil, 3)
		Expect(err).ToNot(HaveOccurred())

		var buf bytes.Buffer
		RenderTable(&buf, trace, 80)
		Expect(buf.String()).To(Equal("LRU, 3 frames, 0 references\n"))
	})

	It("should mark empty frames and evictions", func() {
		trace, err := paging.Generate(paging.Optimal, []int{1, 2, 3, 4}, 3)
		Expect(err).ToNot(HaveOccurred())

		var buf bytes.Buffer
		RenderTable(&buf, trace, 80)
		Expect(buf.String()).To(ContainSubstring("Frame 2   . . 3 3"))
		Expect(buf.String()).To(ContainSubstring("Result    F F F R"))
		Expect(buf.String()).To(ContainSubstring("Evicted   - - - 1"))
	})
})
