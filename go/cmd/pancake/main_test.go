// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const countingLoop = `
        push 0
        push 0
        store
        push 1
        push 1
        store
        push 3
        push 4
        store
loop:   push 1
        load
        print
        pop
        push 0
        load
        push 1
        load
        add
        push 2
        store
        push 1
        load
        push 0
        store
        push 2
        load
        push 1
        store
        push 4
        load
        push 1
        sub
        push 4
        store
        push 4
        load
        jumpnotz loop
        halt
`

var _ = Describe("pancake", func() {
	var (
		dir    string
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "pancake")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	source := func(text string) string {
		path := filepath.Join(dir, "program.pk")
		Expect(os.WriteFile(path, []byte(text), 0600)).To(Succeed())
		return path
	}

	pancake := func(args ...string) int {
		return run(append([]string{"pancake"}, args...), stdout, stderr)
	}

	Context("when running a program", func() {
		It("should print the values in program order", func() {
			Expect(pancake(source(countingLoop))).To(Equal(exitOk))
			Expect(stdout.String()).To(Equal("1\n1\n2\n"))
			Expect(stderr.String()).To(BeEmpty())
		})

		It("should accept the explicit run command", func() {
			Expect(pancake("run", source("push 7\nprint\nhalt"))).To(Equal(exitOk))
			Expect(stdout.String()).To(Equal("7\n"))
		})

		It("should report assembly errors", func() {
			Expect(pancake(source("push 1\nfoo\nhalt"))).To(Equal(exitAssembly))
			Expect(stderr.String()).To(ContainSubstring("line 2: unknown mnemonic 'foo'"))
			Expect(stdout.String()).To(BeEmpty())
		})

		It("should report undefined labels", func() {
			Expect(pancake(source("jump missing"))).To(Equal(exitResolution))
			Expect(stderr.String()).To(ContainSubstring("missing"))
		})

		It("should report faults with their location", func() {
			Expect(pancake(source("push 5\nprint\npush 0\ndiv\nhalt"))).To(Equal(exitFault))
			Expect(stdout.String()).To(Equal("5\n"))
			Expect(stderr.String()).To(ContainSubstring("division by zero at 0x0003 (div), line 4"))
		})

		It("should use the requested memory capacity", func() {
			path := source("push 1\npush 4\nstore\nhalt")
			Expect(pancake(path)).To(Equal(exitOk))
			Expect(pancake("--memory", "4", path)).To(Equal(exitFault))
			Expect(stderr.String()).To(ContainSubstring("memory access out of bounds"))
		})

		It("should reject a negative memory capacity", func() {
			Expect(pancake("--memory", "-1", source("halt"))).To(Equal(exitUsage))
		})

		It("should report statistics", func() {
			Expect(pancake("--stats", source(countingLoop))).To(Equal(exitOk))
			Expect(stderr.String()).To(ContainSubstring("steps: 94"))
			Expect(stderr.String()).To(ContainSubstring("Statistics (94 steps)"))
		})

		It("should trace executed instructions", func() {
			Expect(pancake("--trace", source("push 1\nhalt"))).To(Equal(exitOk))
			Expect(stderr.String()).To(ContainSubstring(`op="push 1"`))
			Expect(stderr.String()).To(ContainSubstring("op=halt"))
		})

		It("should not combine tracing and statistics", func() {
			Expect(pancake("--trace", "--stats", source("halt"))).To(Equal(exitUsage))
		})

		It("should abort runs exceeding the timeout", func() {
			Expect(pancake("--timeout", "50ms", source("loop: jump loop"))).To(Equal(exitTimeout))
			Expect(stderr.String()).To(ContainSubstring("run aborted"))
		})

		It("should finish runs within the timeout", func() {
			Expect(pancake("--timeout", "1m", source("push 3\nprint\nhalt"))).To(Equal(exitOk))
			Expect(stdout.String()).To(Equal("3\n"))
		})

		It("should write a CPU profile", func() {
			profile := filepath.Join(dir, "cpu.prof")
			Expect(pancake("--cpuprofile", profile, source(countingLoop))).To(Equal(exitOk))
			Expect(profile).To(BeAnExistingFile())
		})
	})

	Context("when the command line is invalid", func() {
		It("should require a source file", func() {
			Expect(pancake()).To(Equal(exitUsage))
		})

		It("should report missing files", func() {
			Expect(pancake(filepath.Join(dir, "missing.pk"))).To(Equal(exitUsage))
			Expect(stderr.String()).To(ContainSubstring("failed to read source"))
		})

		It("should reject unknown interpreters", func() {
			Expect(pancake("--interpreter", "evm", source("halt"))).To(Equal(exitUsage))
			Expect(stderr.String()).To(ContainSubstring("pvm"))
		})
	})

	Context("when listing a program", func() {
		It("should show resolved addresses and labels", func() {
			Expect(pancake("asm", source("start: push 1\njumpnotz end\njump start\nend: halt\ndone:"))).To(Equal(exitOk))
			listing := stdout.String()
			Expect(listing).To(ContainSubstring("start:"))
			Expect(listing).To(ContainSubstring("jumpnotz 0x0003"))
			Expect(listing).To(ContainSubstring("jump 0x0000"))
			Expect(listing).To(ContainSubstring("done:"))
			Expect(listing).To(ContainSubstring("0x0004"))
		})

		It("should report assembly errors", func() {
			Expect(pancake("asm", source("push"))).To(Equal(exitAssembly))
			Expect(stderr.String()).To(ContainSubstring("missing operand"))
		})

		It("should report undefined labels", func() {
			Expect(pancake("asm", source("call nowhere"))).To(Equal(exitResolution))
		})
	})
})
