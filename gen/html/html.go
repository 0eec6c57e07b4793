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

// Package html converts an assembled document into a standalone HTML
// page. All source text is escaped on the way out; class and id
// parameters land in class and id attributes.
//
// Blocks and inline forms correspond to the following HTML tags:
//	Paragraph              <p></p>
//	Heading                <h1></h1> through <h6></h6>, <p></p> past level 6
//	Contents               <div class="toc"></div>
//	List                   <ul></ul>, <ol></ol>
//	Table                  <table></table>
//	Gloss                  <div class="gloss"></div>
//	Emphasis               <em></em>
//	Strong                 <strong></strong>
//	Italics                <i></i>
//	Bold                   <b></b>
//	SmallCaps              <span class="small-caps"></span>
//	Span                   <span></span>
//	Reference, Link        <a href=""></a>
//	Replace                the replacement's own text
//
// Control and replacement-definition blocks produce no output of their
// own; controls surface in the page head.
package html // import "mavri.cc/conmark/gen/html"

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"sync"

	"mavri.cc/conmark/document"
)

type stickyCountWriter struct {
	n   int64
	err error
	w   io.Writer
}

func (c *stickyCountWriter) Write(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err = c.w.Write(p)
	c.err = err
	c.n += int64(n)
	return
}

// Generator represents a non-reusable HTML output generator for a
// *document.Document.
type Generator struct {
	// Stdout specifies the generator's standard output, where the HTML
	// page is written.
	Stdout   io.Writer
	ctx      context.Context
	doc      *document.Document
	waitdone chan error

	m     sync.Mutex
	pipes []io.Closer
}

// Gen returns the Generator struct to convert the given document into
// HTML output.
//
// It sets only the document in the returned structure.
func Gen(doc *document.Document) *Generator {
	return &Generator{ctx: context.TODO(), doc: doc}
}

// GenContext is like Gen but includes a context.
//
// The provided context is used to halt HTML generation after
// processing a block.
func GenContext(ctx context.Context, doc *document.Document) *Generator {
	if ctx == nil {
		panic("nil context")
	}
	return &Generator{ctx: ctx, doc: doc}
}

// Start starts the generator but does not wait for it to complete.
func (g *Generator) Start() error {
	if g.Stdout == nil {
		g.Stdout = io.Discard
	}
	g.waitdone = make(chan error)
	go func() {
		err := g.gen()
		for _, p := range g.pipes {
			p.Close()
		}
		g.m.Lock()
		g.pipes = nil
		g.m.Unlock()
		g.waitdone <- err
	}()
	return nil
}

// Wait waits for the generator to complete and finish copying to
// Stdout. It is an error to call Wait before Start has been called.
//
// Wait will release any resources associated with the generator.
func (g *Generator) Wait() error {
	if g.waitdone == nil {
		return fmt.Errorf("not started")
	}
	// prevent callers to Wait from a deadlock via not waiting for pipes to close
	g.m.Lock()
	if g.pipes != nil {
		g.m.Unlock()
		return fmt.Errorf("all reads from the pipe have not completed")
	}
	g.m.Unlock()
	err := <-g.waitdone
	close(g.waitdone)
	return err
}

// Run starts the generator and waits for it to complete, returning any
// errors encountered.
func (g *Generator) Run() error {
	if err := g.Start(); err != nil {
		return err
	}
	return g.Wait()
}

// StdoutPipe returns a pipe that is connected to the generator's
// standard output.
//
// It is invalid to call Wait until all reads from the pipe have
// completed. For the same reason, it is invalid to call Run when using
// StdoutPipe.
func (g *Generator) StdoutPipe() (io.Reader, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	pr, pw := io.Pipe()
	g.Stdout = pw
	g.pipes = append(g.pipes, pw)
	return pr, nil
}

// Output runs the generator and returns its standard output.
func (g *Generator) Output() ([]byte, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	var stdout bytes.Buffer
	g.Stdout = &stdout
	err := g.Run()
	return stdout.Bytes(), err
}

func (g *Generator) gen() error {
	cw := &stickyCountWriter{0, nil, g.Stdout}
	g.head(cw)
	if cw.err != nil {
		return fmt.Errorf("writing head: %w", cw.err)
	}
	for i, b := range g.doc.Blocks() {
		select {
		case <-g.ctx.Done():
			return cw.err
		default:
			if err := b.Render(cw, g.doc); err != nil {
				return fmt.Errorf("writing block %d: %w", i, err)
			}
		}
	}
	g.tail(cw)
	if cw.err != nil {
		return fmt.Errorf("writing tail: %w", cw.err)
	}
	return nil
}

func (g *Generator) head(w io.Writer) {
	io.WriteString(w, "<!DOCTYPE html>\n")
	if g.doc.Lang == "" {
		io.WriteString(w, "<html>\n")
	} else {
		fmt.Fprintf(w, "<html lang=\"%s\">\n", html.EscapeString(g.doc.Lang))
	}
	io.WriteString(w, "<head>\n<meta charset=\"utf-8\">\n")
	if g.doc.Title != "" {
		fmt.Fprintf(w, "<title>%s</title>\n", html.EscapeString(g.doc.Title))
	}
	if g.doc.Author != "" {
		fmt.Fprintf(w, "<meta name=\"author\" content=\"%s\">\n", html.EscapeString(g.doc.Author))
	}
	if g.doc.Description != "" {
		fmt.Fprintf(w, "<meta name=\"description\" content=\"%s\">\n", html.EscapeString(g.doc.Description))
	}
	for _, href := range g.doc.Stylesheets {
		fmt.Fprintf(w, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(href))
	}
	io.WriteString(w, "</head>\n<body>\n")
}

func (g *Generator) tail(w io.Writer) {
	io.WriteString(w, "</body>\n</html>\n")
}
