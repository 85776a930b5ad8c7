package rpc

import (
	"fmt"
	"log"
	"net"
	"sync"

	"google.golang.org/grpc"
)

// Server owns a gRPC server bound to a TCP address.
type Server struct {
	addr     string
	server   *grpc.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer returns a server for svc that will listen on addr.
func NewServer(addr string, svc KinematicsServer) *Server {
	s := &Server{addr: addr, server: grpc.NewServer()}
	RegisterService(s.server, svc)
	return s
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = lis

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Printf("[rpc] gRPC server listening on %s", lis.Addr())
		if err := s.server.Serve(lis); err != nil {
			log.Printf("[rpc] gRPC server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully stops the server and waits for Serve to return.
func (s *Server) Stop() {
	s.server.GracefulStop()
	s.wg.Wait()
}
