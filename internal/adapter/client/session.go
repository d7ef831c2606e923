package client

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"

	"github.com/rl1809/cart-sync/internal/port"
)

// SessionFactory opens fresh cart and catalog connections for each worker cycle.
type SessionFactory struct {
	cartAddr    string
	catalogAddr string
	rpcTimeout  time.Duration
	dialOpts    []grpc.DialOption
}

func NewSessionFactory(cartAddr, catalogAddr string, rpcTimeout time.Duration, opts ...grpc.DialOption) *SessionFactory {
	return &SessionFactory{
		cartAddr:    cartAddr,
		catalogAddr: catalogAddr,
		rpcTimeout:  rpcTimeout,
		dialOpts:    opts,
	}
}

func (f *SessionFactory) Open(ctx context.Context) (port.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cartConn, err := Dial(f.cartAddr, f.dialOpts...)
	if err != nil {
		return nil, err
	}
	catalogConn, err := Dial(f.catalogAddr, f.dialOpts...)
	if err != nil {
		cartConn.Close()
		return nil, err
	}

	return &session{
		cartConn:    cartConn,
		catalogConn: catalogConn,
		carts:       NewCartGateway(cartConn, f.rpcTimeout),
		catalog:     NewCatalogGateway(catalogConn, f.rpcTimeout),
	}, nil
}

type session struct {
	cartConn    *grpc.ClientConn
	catalogConn *grpc.ClientConn
	carts       *CartGateway
	catalog     *CatalogGateway
}

func (s *session) Carts() port.CartGateway {
	return s.carts
}

func (s *session) Catalog() port.CatalogGateway {
	return s.catalog
}

func (s *session) Close() error {
	return errors.Join(s.cartConn.Close(), s.catalogConn.Close())
}
