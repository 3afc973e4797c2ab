// Package stream drives a PBF byte source block by block.
//
// A Stream frames one block, decompresses it, decodes it and, for OSMData
// blocks, assembles its entities before handing the result to the consumer.
// The next block is not read until the consumer is done with the current one,
// so at most one block is in memory and blocks arrive in file order.
//
// Two equivalent consumption styles are offered. The pull style:
//
//	s, err := stream.Open(f, size)
//	for {
//	    ev, err := s.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // use ev.Header or ev.Batch
//	}
//
// And the handler style, where every notification carries an Ack that must be
// called, synchronously or later from any goroutine, before the stream moves
// on:
//
//	err := s.Run(ctx, stream.Funcs{
//	    Data: func(b *model.Batch) error { return index(b) },
//	})
//
// Either way a run ends with exactly one terminal outcome: the end of the
// source or the first error. Terminal states are sticky.
package stream
