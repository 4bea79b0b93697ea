package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// ToolchainConfig names the external assembler and linker used by --link.
type ToolchainConfig struct {
	Assembler      string
	AssemblerFlags []string
	Linker         string
	LinkerFlags    []string
}

// getToolchainConfig returns the toolchain for the current platform.
// The generated code uses Linux syscalls, so only linux/amd64 is supported.
func getToolchainConfig() (*ToolchainConfig, error) {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		return nil, fmt.Errorf("unsupported platform: %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	return &ToolchainConfig{
		Assembler:      "nasm",
		AssemblerFlags: []string{"-f", "elf64"},
		Linker:         "ld",
		LinkerFlags:    []string{},
	}, nil
}

func (c *ToolchainConfig) assembleArgs(asmFile, objFile string) []string {
	args := append([]string{}, c.AssemblerFlags...)
	return append(args, "-o", objFile, asmFile)
}

func (c *ToolchainConfig) linkArgs(objFile, binFile string) []string {
	args := []string{"-o", binFile, objFile}
	return append(args, c.LinkerFlags...)
}

func assembleAndLink(cmd *cobra.Command, asmFile, binFile string) error {
	config, err := getToolchainConfig()
	if err != nil {
		return fmt.Errorf("failed to get toolchain config: %w", err)
	}
	objFile := strings.TrimSuffix(asmFile, ".asm") + ".o"
	defer os.Remove(objFile)

	asCmd := exec.Command(config.Assembler, config.assembleArgs(asmFile, objFile)...)
	if output, err := asCmd.CombinedOutput(); err != nil {
		cmd.PrintErrf("assembly failed: %v\nOutput: %s\n", err, string(output))
		return err
	}

	ldCmd := exec.Command(config.Linker, config.linkArgs(objFile, binFile)...)
	if output, err := ldCmd.CombinedOutput(); err != nil {
		cmd.PrintErrf("linking failed: %v\nOutput: %s\n", err, string(output))
		return err
	}
	return nil
}
