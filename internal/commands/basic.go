/*
 * This file is part of the Acorn DFS Image Tool ("dfsit")
 * Copyright (C) 2025 Andreas Signer <asigner@gmail.com>
 *
 * dfsit is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * dfsit is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with dfsit.  If not, see <https://www.gnu.org/licenses/>.
 */

package commands

import (
	"bytes"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/basic"
)

// Tokenize converts a BASIC source file into a tokenized program file.
func Tokenize(inputPath, outputPath string, requireASCII, overwrite bool) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	log.Debug().Msgf("%s: line ending %s", inputPath, basic.GuessLineEnding(src))
	var buf bytes.Buffer
	if err := basic.Tokenize(&buf, src, requireASCII); err != nil {
		return err
	}
	if err := writeFile(outputPath, buf.Bytes(), overwrite); err != nil {
		return err
	}
	log.Info().Msgf("Wrote %s (%d bytes)", outputPath, buf.Len())
	return nil
}

// Detokenize lists a tokenized program. Without outputPath, the listing is
// written to stdout.
func Detokenize(inputPath, outputPath string, lossless, overwrite bool, stdout io.Writer) error {
	b, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	if outputPath == "" {
		return basic.Detokenize(stdout, b, lossless)
	}
	var buf bytes.Buffer
	if err := basic.Detokenize(&buf, b, lossless); err != nil {
		return err
	}
	return writeFile(outputPath, buf.Bytes(), overwrite)
}
