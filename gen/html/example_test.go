// MIT License

// Copyright (c) 2020 Senna Mavri

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Examples for html.go
package html_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"mavri.cc/conmark/document"
	"mavri.cc/conmark/gen/html"
)

func ExampleGen() {
	src := `# Ŋauvi

La *valsi* nauto.
`
	doc, err := document.Build(strings.NewReader(src))
	if err != nil {
		log.Fatal(err)
	}
	g := html.Gen(doc)
	var out bytes.Buffer
	g.Stdout = &out

	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s", out.String())
	// Output:
	// <!DOCTYPE html>
	// <html>
	// <head>
	// <meta charset="utf-8">
	// </head>
	// <body>
	// <h1 id="sec-1" class=" "><span class="secnum">1.</span>Ŋauvi</h1>
	//
	// <p>La <em class=" ">valsi</em> nauto.</p>
	//
	// </body>
	// </html>
}

func ExampleGenContext() {
	src := "Aler taru.\n"
	doc, err := document.Build(strings.NewReader(src))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	g := html.GenContext(ctx, doc)
	var out bytes.Buffer
	g.Stdout = &out

	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s", out.String())
	// Output:
	// <!DOCTYPE html>
	// <html>
	// <head>
	// <meta charset="utf-8">
	// </head>
	// <body>
	// <p>Aler taru.</p>
	//
	// </body>
	// </html>
}

func ExampleGenerator_StdoutPipe() {
	src := "Mirelo kuna.\n"
	doc, err := document.Build(strings.NewReader(src))
	if err != nil {
		log.Fatal(err)
	}
	g := html.Gen(doc)
	stdout, err := g.StdoutPipe()
	if err != nil {
		log.Fatal(err)
	}

	if err := g.Start(); err != nil {
		log.Fatal(err)
	}
	b, _ := io.ReadAll(stdout)
	fmt.Printf("%s", b)

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func ExampleGenerator_Output() {
	src := ":list:\n:: ʔes\n:: taka\n"
	doc, err := document.Build(strings.NewReader(src))
	if err != nil {
		log.Fatal(err)
	}
	b, err := html.Gen(doc).Output()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s", b)
	// Output:
	// <!DOCTYPE html>
	// <html>
	// <head>
	// <meta charset="utf-8">
	// </head>
	// <body>
	// <ul id="__no-id-0" class=""><li>ʔes</li>
	// <li>taka</li>
	// </ul>
	// </body>
	// </html>
}
