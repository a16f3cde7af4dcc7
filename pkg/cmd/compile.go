// Copyright The go-zkasm Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zkasmlang/go-zkasm/pkg/asm/compiler"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] asm_file",
	Short: "compile an assembly file into polynomial constraints.",
	Long: `Compile a given assembly file, describing a virtual machine and the program
	 running on it, into a polynomial constraint system (PIL).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		output := GetString(cmd, "output")
		// Read the assembly file
		srcfile, err := source.ReadFile(args[0])
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Compile it
		pilfile, errs := compiler.CompileSourceFile(srcfile)
		//
		if len(errs) > 0 {
			for _, err := range errs {
				printSyntaxError(&err)
			}
			//
			os.Exit(2)
		}
		// Write out the result
		if output == "" {
			fmt.Print(pilfile)
		} else if err := os.WriteFile(output, []byte(pilfile.String()), 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "write PIL to given file (defaults to stdout)")
}
